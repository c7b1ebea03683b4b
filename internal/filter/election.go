package filter

import "time"

// Lok Sabha general-election years. The seasonality filters classify
// every calendar year against this fixed set; it only grows when a
// new general election is held.
var electionYears = map[int]bool{
	1952: true, 1957: true, 1962: true, 1967: true, 1971: true,
	1977: true, 1980: true, 1984: true, 1989: true, 1991: true,
	1996: true, 1998: true, 1999: true, 2004: true, 2009: true,
	2014: true, 2019: true, 2024: true,
}

// modernEraStart marks the beginning of the current political era;
// ModernEra membership is every year from here on.
const modernEraStart = 2014

// matchesElectionType reports whether a calendar year satisfies the
// requested classification. Election, PreElection, PostElection and
// MidElection partition the cycle: a year is MidElection exactly when
// none of the three election relations hold. ModernEra and Current
// are independent of the cycle.
func matchesElectionType(year int, t ElectionYearType) bool {
	switch t {
	case ElectionYear:
		return electionYears[year]
	case PreElectionYear:
		return electionYears[year+1]
	case PostElectionYear:
		return electionYears[year-1]
	case MidElectionYear:
		return !electionYears[year] && !electionYears[year+1] && !electionYears[year-1]
	case ModernEraYear:
		return year >= modernEraStart
	case CurrentYear:
		return year == time.Now().Year()
	default:
		return true
	}
}

// isElectionYear reports membership in the fixed election-year set.
func isElectionYear(year int) bool {
	return electionYears[year]
}
