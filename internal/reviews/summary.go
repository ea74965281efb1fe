package reviews

import (
	"math/big"
	"strconv"
)

// Summary is the derived rating shown next to a judge's reviews.
type Summary struct {
	Count          int     `json:"count"`
	Average        float64 `json:"average"`
	AverageDisplay string  `json:"average_display"`
}

// Summarize averages the ratings, rounded to one decimal. With no reviews the
// average is 0 and is displayed as "0".
func Summarize(reviews []Review) Summary {
	if len(reviews) == 0 {
		return Summary{AverageDisplay: "0"}
	}
	sum := 0
	for _, r := range reviews {
		sum += r.Rating
	}
	tenths := roundTenths(float64(sum) / float64(len(reviews)))
	return Summary{
		Count:          len(reviews),
		Average:        float64(tenths) / 10,
		AverageDisplay: strconv.FormatInt(tenths/10, 10) + "." + strconv.FormatInt(tenths%10, 10),
	}
}

// roundTenths returns mean*10 rounded half up, computed on the exact value of
// the float64. 4.35 is stored as 4.34999... and so gives 43, while 4.25 is
// exact and gives 43. mean must be non-negative.
func roundTenths(mean float64) int64 {
	x := new(big.Float).SetPrec(256).SetFloat64(mean)
	x.Mul(x, big.NewFloat(10))
	x.Add(x, big.NewFloat(0.5))
	n, _ := x.Int64()
	return n
}

// Snapshot is everything a detail view needs to render the ledger. Live
// subscribers receive a fresh Snapshot on every change.
type Snapshot struct {
	JudgeID string   `json:"judgeId"`
	Reviews []Review `json:"reviews"`
	Summary
}
