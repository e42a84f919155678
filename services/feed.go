package services

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"mapmyissues/models"
)

// Feed turns change notifications into fresh read model snapshots. Each
// notification triggers a full re-read; bursts are coalesced into one.
type Feed struct {
	subscriber Subscriber
	issues     *IssueService
}

func NewFeed(subscriber Subscriber, issues *IssueService) *Feed {
	return &Feed{
		subscriber: subscriber,
		issues:     issues,
	}
}

// Watch sends the current snapshot and then a new one after every change. The
// channel is closed once ctx is done.
func (f *Feed) Watch(ctx context.Context, username string) (<-chan []models.IssueView, error) {
	notify := make(chan struct{}, 1)

	unsubscribe, err := f.subscriber.Subscribe(ctx, func(models.ChangeEvent) {
		select {
		case notify <- struct{}{}:
		default:
		}
	})
	if err != nil {
		return nil, fmt.Errorf("f.subscriber.Subscribe: %w", err)
	}

	out := make(chan []models.IssueView)

	go func() {
		defer close(out)
		defer unsubscribe()

		for {
			views, err := f.issues.Views(ctx, username)
			if err != nil {
				log.Errorf("feed: f.issues.Views: %v", err)
			} else {
				select {
				case out <- views:
				case <-ctx.Done():
					return
				}
			}

			select {
			case <-notify:
			case <-ctx.Done():
				return
			}
		}
	}()

	return out, nil
}
