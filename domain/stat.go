package domain

import "time"

// RevenuePerStream is the payout credited per listen.
const RevenuePerStream = 0.003

const (
	GoldThreshold     int64 = 50000
	PlatinumThreshold int64 = 100000
	DiamondThreshold  int64 = 1000000
)

type Award string

const (
	AwardGold     Award = "Gold"
	AwardPlatinum Award = "Platinum"
	AwardDiamond  Award = "Diamond"
)

// AwardThresholds is ordered by ascending threshold.
var AwardThresholds = []struct {
	Award     Award
	Threshold int64
}{
	{AwardGold, GoldThreshold},
	{AwardPlatinum, PlatinumThreshold},
	{AwardDiamond, DiamondThreshold},
}

type Stat struct {
	ID           string    `bson:"id" json:"id"`
	SingleID     string    `bson:"single_id" json:"single_id"`
	ListensCount int64     `bson:"listens_count" json:"listens_count"`
	Revenue      float64   `bson:"revenue" json:"revenue"`
	CreatedAt    time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt    time.Time `bson:"updated_at" json:"updated_at"`
}

// RevenueFor is the only way revenue is derived.
func RevenueFor(listens int64) float64 {
	return float64(listens) * RevenuePerStream
}

// SetListens updates the counter and re-derives revenue.
func (s *Stat) SetListens(listens int64) {
	s.ListensCount = listens
	s.Revenue = RevenueFor(listens)
}
