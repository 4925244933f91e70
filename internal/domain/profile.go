package domain

// Relation names one of the two product-reference sets a profile carries.
// They are independent instances of the same toggle machinery and never read
// each other's state.
type Relation string

const (
	RelationFavorite Relation = "favorites"
	RelationBookmark Relation = "bookmarks"
)

// Noun is the human name used in notifications ("Added to favorites").
func (r Relation) Noun() string { return string(r) }

// Profile mirrors the backend profile record. FavoriteCars and BookmarkedCars
// are the client's transient copy of the membership sets; the backend stays
// the source of truth and the copy reconciles on the next full fetch.
type Profile struct {
	User              int64          `json:"user"`
	Name              string         `json:"name"`
	Location          string         `json:"location"`
	ContactInfo       string         `json:"contact_info"`
	Bio               string         `json:"bio"`
	ProfilePictureURL string         `json:"profile_picture_url"`
	FavoriteCars      []int64        `json:"favorite_cars"`
	BookmarkedCars    []int64        `json:"bookmarked_cars"`
	ActivityLog       []ActivityItem `json:"activity_log,omitempty"`
	MemberSince       string         `json:"member_since"`
}

// Cars returns the id set for one relation.
func (p *Profile) Cars(rel Relation) []int64 {
	if rel == RelationBookmark {
		return p.BookmarkedCars
	}
	return p.FavoriteCars
}

// ProfileUpdate carries the editable display fields. Nil pointers mean
// "leave untouched". Picture forces the request onto the multipart path.
type ProfileUpdate struct {
	Name        *string
	Location    *string
	ContactInfo *string
	Bio         *string
	Picture     *FileUpload
}

type ActivityAction string

const (
	ActionPurchase ActivityAction = "purchase"
	ActionView     ActivityAction = "view"
	ActionBookmark ActivityAction = "bookmark"
	ActionFavorite ActivityAction = "favorite"
)

// Label is the feed wording for an action.
func (a ActivityAction) Label() string {
	switch a {
	case ActionPurchase:
		return "Purchased a car"
	case ActionView:
		return "Viewed a car"
	case ActionBookmark:
		return "Bookmarked a car"
	case ActionFavorite:
		return "Favorited a car"
	}
	return "Interacted with a car"
}

// ActivityItem is one server-generated feed entry. Read-only.
type ActivityItem struct {
	ID        int64          `json:"id"`
	Profile   int64          `json:"profile"`
	Product   int64          `json:"product"`
	Action    ActivityAction `json:"action"`
	Timestamp string         `json:"timestamp"`
	Details   string         `json:"details,omitempty"`
}

// ActivityPage is one page of the cursor-style activity listing. Next and
// Previous are absolute URLs or null, exactly as the backend sends them.
type ActivityPage struct {
	Count    int            `json:"count"`
	Next     *string        `json:"next"`
	Previous *string        `json:"previous"`
	Results  []ActivityItem `json:"results"`
}
