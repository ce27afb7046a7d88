package stats

import "sort"

// DefaultBusFactorThreshold is the share of commits the bus factor authors must cover
const DefaultBusFactorThreshold = 0.5

// BusFactorResult holds the calculated bus factor and commit share data
type BusFactorResult struct {
	BusFactor       int                `json:"bus_factor"`
	Threshold       float64            `json:"threshold"` // e.g., 0.5 for 50%
	TotalCommits    int                `json:"total_commits"`
	TopContributors []ContributorShare `json:"top_contributors"`
	RiskLevel       string             `json:"risk_level"` // "high", "medium", "low", "unknown"
}

// ContributorShare represents a contributor's share of the counted commits
type ContributorShare struct {
	Email    string  `json:"email"`
	Name     string  `json:"name"`
	Commits  int     `json:"commits"`
	SharePct float64 `json:"share_pct"`
}

// CalculateBusFactor returns the minimum number of contributors whose commits
// reach threshold of all counted commits
func CalculateBusFactor(contributors []Contributor, threshold float64) BusFactorResult {
	total := 0
	for _, c := range contributors {
		total += c.Commits
	}

	if total == 0 {
		return BusFactorResult{
			BusFactor:       0,
			Threshold:       threshold,
			TotalCommits:    0,
			TopContributors: []ContributorShare{},
			RiskLevel:       "unknown",
		}
	}

	shares := make([]ContributorShare, 0, len(contributors))
	for _, c := range contributors {
		shares = append(shares, ContributorShare{
			Email:    c.Email,
			Name:     c.Name,
			Commits:  c.Commits,
			SharePct: float64(c.Commits) * 100.0 / float64(total),
		})
	}

	// Sort by commits descending
	sort.SliceStable(shares, func(i, j int) bool {
		return shares[i].Commits > shares[j].Commits
	})

	// Count contributors needed to reach threshold
	busFactor := 0
	cumulative := 0
	for _, s := range shares {
		busFactor++
		cumulative += s.Commits
		if float64(cumulative) >= threshold*float64(total) {
			break
		}
	}

	riskLevel := "low"
	if busFactor == 1 {
		riskLevel = "high"
	} else if busFactor <= 3 {
		riskLevel = "medium"
	}

	return BusFactorResult{
		BusFactor:       busFactor,
		Threshold:       threshold,
		TotalCommits:    total,
		TopContributors: shares,
		RiskLevel:       riskLevel,
	}
}
