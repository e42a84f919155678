package controllers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	middlewares "mapmyissues/middleware"
	"mapmyissues/models"
	"mapmyissues/services"
	"mapmyissues/utils"
)

type IssueController struct {
	issues *services.IssueService
	feed   *services.Feed
}

func NewIssueController(issues *services.IssueService, feed *services.Feed) *IssueController {
	return &IssueController{
		issues: issues,
		feed:   feed,
	}
}

func session(c *gin.Context) models.SessionUser {
	user, _ := middlewares.SessionFrom(c)
	return user
}

// GET /issues?status=&priority=&department=&sort=&page=&page_size=
func (ic *IssueController) List(c *gin.Context) {
	var query services.ListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		invalidInput(c, err)
		return
	}

	result, err := ic.issues.List(c.Request.Context(), session(c).Username, query)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, http.StatusOK, result)
}

func (ic *IssueController) Get(c *gin.Context) {
	view, err := ic.issues.Get(c.Request.Context(), c.Param("id"), session(c).Username)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, http.StatusOK, view)
}

func (ic *IssueController) Create(c *gin.Context) {
	var submission services.Submission
	if err := c.ShouldBindJSON(&submission); err != nil {
		invalidInput(c, err)
		return
	}

	result, err := ic.issues.Create(c.Request.Context(), session(c), submission)
	if err != nil {
		respondError(c, err)
		return
	}

	message := "Issue reported"
	if result.DuplicateNearby {
		message = "Issue reported. A similar issue was already reported nearby"
	}
	utils.SuccessMessage(c, http.StatusCreated, message, result)
}

func (ic *IssueController) Update(c *gin.Context) {
	var update models.IssueUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		invalidInput(c, err)
		return
	}
	if update.Empty() {
		utils.FailWithErrors(c, http.StatusBadRequest, "Validation failed", []string{"At least one field must be provided"})
		return
	}

	view, err := ic.issues.Update(c.Request.Context(), session(c), c.Param("id"), update)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessMessage(c, http.StatusOK, "Issue updated", view)
}

func (ic *IssueController) Advance(c *gin.Context) {
	view, changed, err := ic.issues.Advance(c.Request.Context(), session(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	message := "Issue moved to " + utils.Label(string(view.Status))
	if !changed {
		message = "Issue is already completed"
	}
	utils.SuccessMessage(c, http.StatusOK, message, view)
}

func (ic *IssueController) Delete(c *gin.Context) {
	if err := ic.issues.Delete(c.Request.Context(), session(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessMessage(c, http.StatusOK, "Issue deleted", nil)
}

type voteRequest struct {
	UserName string `json:"user_name"`
}

func (ic *IssueController) Vote(c *gin.Context) {
	var req voteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidInput(c, err)
		return
	}

	result, err := ic.issues.Vote(c.Request.Context(), session(c), c.Param("id"), req.UserName)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessMessage(c, http.StatusCreated, "Vote recorded", result)
}

func (ic *IssueController) Validate(c *gin.Context) {
	result, err := ic.issues.Validate(c.Request.Context(), session(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, http.StatusOK, result)
}

type dashboardBucket struct {
	Status models.Status      `json:"status"`
	Label  string             `json:"label"`
	Total  int                `json:"total"`
	Issues []models.IssueView `json:"issues"`
}

func (ic *IssueController) Dashboard(c *gin.Context) {
	buckets, err := ic.issues.Dashboard(c.Request.Context(), session(c).Username)
	if err != nil {
		respondError(c, err)
		return
	}

	out := make([]dashboardBucket, 0, len(buckets))
	for _, bucket := range buckets {
		out = append(out, dashboardBucket{
			Status: bucket.Status,
			Label:  utils.Label(string(bucket.Status)),
			Total:  bucket.Total,
			Issues: bucket.Issues,
		})
	}
	utils.Success(c, http.StatusOK, out)
}

type insightsResponse struct {
	services.Insights
	TotalSpendingFormatted string `json:"totalSpendingFormatted"`
}

func (ic *IssueController) Insights(c *gin.Context) {
	insights, err := ic.issues.Insights(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, http.StatusOK, insightsResponse{
		Insights:               insights,
		TotalSpendingFormatted: utils.FormatCurrency(insights.TotalSpending),
	})
}

// GET /issues/nearby?type=&lat=&lng=
func (ic *IssueController) Nearby(c *gin.Context) {
	duplicate, err := ic.issues.Nearby(c.Request.Context(), c.Query("type"), c.Query("lat"), c.Query("lng"))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, http.StatusOK, gin.H{"duplicate_nearby": duplicate})
}

// Stream pushes a fresh issues snapshot as a server-sent event after every
// change to issues or votes.
func (ic *IssueController) Stream(c *gin.Context) {
	snapshots, err := ic.feed.Watch(c.Request.Context(), session(c).Username)
	if err != nil {
		respondError(c, err)
		return
	}

	c.Stream(func(w io.Writer) bool {
		views, ok := <-snapshots
		if !ok {
			return false
		}
		c.SSEvent("issues", views)
		return true
	})
}
