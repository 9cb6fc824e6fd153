package election

// LocationRef identifies one municipality listed on the index page
type LocationRef struct {
	Code      string `json:"code"`
	Name      string `json:"name"`
	DetailURL string `json:"detail_url"`
}

// Summary holds the positional fields of a detail page's summary table.
// Values keep the page's punctuation with non-breaking spaces removed.
type Summary struct {
	DistrictsTotal       string `json:"districts_total"`
	DistrictsReported    string `json:"districts_reported"`
	DistrictsPercentage  string `json:"districts_percentage"`
	VotersRegistered     string `json:"voters_registered"`
	EnvelopesIssued      string `json:"envelopes_issued"`
	TurnoutPercentage    string `json:"turnout_percentage"`
	EnvelopesSubmitted   string `json:"envelopes_submitted"`
	ValidVotes           string `json:"valid_votes"`
	ValidVotesPercentage string `json:"valid_votes_percentage"`
}

// SummaryFieldCount is the number of cells a summary table must provide
const SummaryFieldCount = 9

// NewSummary builds a Summary from cells in page order. It returns nil when
// fewer than SummaryFieldCount values are given.
func NewSummary(cells []string) *Summary {
	if len(cells) < SummaryFieldCount {
		return nil
	}
	return &Summary{
		DistrictsTotal:       cells[0],
		DistrictsReported:    cells[1],
		DistrictsPercentage:  cells[2],
		VotersRegistered:     cells[3],
		EnvelopesIssued:      cells[4],
		TurnoutPercentage:    cells[5],
		EnvelopesSubmitted:   cells[6],
		ValidVotes:           cells[7],
		ValidVotesPercentage: cells[8],
	}
}

// PartyResult is one row of a party results table
type PartyResult struct {
	Number          string `json:"party_number"`
	Name            string `json:"party_name"`
	Votes           string `json:"votes"`
	VotesPercentage string `json:"votes_percentage"`
}

// VoteCount returns Votes as an integer, or 0 when it is not a number
func (p PartyResult) VoteCount() int {
	return ParseVotes(p.Votes)
}

// LocationRecord is everything extracted for one location.
// Summary is nil when the detail page had no usable summary table.
// Err is set when the detail page could not be fetched; such a record
// still produces a row, with empty fixed fields and no votes.
type LocationRecord struct {
	LocationRef
	Summary *Summary      `json:"summary,omitempty"`
	Parties []PartyResult `json:"parties"`
	Err     error         `json:"-"`
}
