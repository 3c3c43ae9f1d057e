package helper

import "time"

type UserToken struct {
	UserId   string `json:"user_id" bson:"user_id"`
	UserRole string `json:"user_role" bson:"user_role"`
	OrgId    string `json:"uo_id" bson:"uo_id"`
	OrgGroup string `json:"uo_group" bson:"uo_group"`
}

// ShortURL maps a share code to a stored file link. Kept in the shared db so
// the public redirect needs no OrgId.
type ShortURL struct {
	Id          string    `json:"_id" bson:"_id"`
	OrgId       string    `json:"org_id" bson:"org_id"`
	OriginalURL string    `json:"original_url" bson:"original_url"`
	RefId       string    `json:"ref_id" bson:"ref_id"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at"`
}

// DateRange is an inclusive created_on filter; zero ends are open.
type DateRange struct {
	From time.Time
	To   time.Time
}
