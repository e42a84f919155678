package utils

import (
	"strings"

	"github.com/leekchan/accounting"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var rupees = accounting.Accounting{
	Symbol:    "₹",
	Precision: 2,
	Thousand:  ",",
	Decimal:   ".",
}

func FormatCurrency(value float64) string {
	return rupees.FormatMoney(value)
}

var title = cases.Title(language.Und, cases.NoLower)

var labelWords = strings.NewReplacer("inprogress", "in progress", "_", " ")

// Label turns a stored enum value such as "inprogress" into "In Progress".
func Label(value string) string {
	return title.String(labelWords.Replace(value))
}
