package domain

// Review is append-only from the client's perspective.
type Review struct {
	ID                 int64  `json:"id"`
	Reviewer           string `json:"reviewer"`
	ReviewerID         int64  `json:"reviewer_id"`
	Car                int64  `json:"car"`
	Review             string `json:"review"`
	ReviewerProfilePic string `json:"reviewer_Profile_pic"`
	TimeWritten        string `json:"time_written"`
}
