package alerts

import (
	"fmt"
	"math/rand"
	"time"
)

// Alert is one entry in the live flow feed.
type Alert struct {
	ID   int64  `json:"id"`
	Text string `json:"text"`
	Time string `json:"time"`
}

// FeedCap bounds the visible flow feed.
const FeedCap = 10

// Mock alert ladders. These keep the feed alive until real flow
// credentials are configured.
var (
	mockStrikes  = []int{90, 95, 100, 105, 110, 115, 120, 125}
	mockPremiums = []string{"$200k", "$350k", "$500k", "$800k", "$1.2M"}
)

// NewAlert stamps arbitrary text as a feed entry.
func NewAlert(text string) Alert {
	return Alert{
		ID:   time.Now().UnixNano(),
		Text: text,
		Time: time.Now().Format("15:04"),
	}
}

// NewMockAlert fabricates a sweep alert for a ticker.
func NewMockAlert(ticker string) Alert {
	strike := mockStrikes[rand.Intn(len(mockStrikes))]
	premium := mockPremiums[rand.Intn(len(mockPremiums))]

	return Alert{
		ID:   time.Now().UnixNano(),
		Text: fmt.Sprintf("🚨 %s %dC sweep spotted · Premium %s", ticker, strike, premium),
		Time: time.Now().Format("15:04"),
	}
}
