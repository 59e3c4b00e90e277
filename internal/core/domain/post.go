package domain

// Comment is a single comment left on a post.
type Comment struct {
	DisplayName string `json:"display_name" bson:"displayName"`
	Comment     string `json:"comment" bson:"comment"`
}

// Post is a photo document from the "photos" collection. It is fetched, never
// written, by this service.
type Post struct {
	DocID       string    `json:"doc_id" bson:"_id,omitempty"`
	PhotoID     int64     `json:"photo_id" bson:"photoId"`
	UserID      string    `json:"user_id" bson:"userId"`
	ImageSrc    string    `json:"image_src" bson:"imageSrc"`
	Caption     string    `json:"caption" bson:"caption"`
	Likes       []string  `json:"likes" bson:"likes"`
	Comments    []Comment `json:"comments" bson:"comments"`
	DateCreated int64     `json:"date_created" bson:"dateCreated"`
}

// FeedItem is a post as shown on a viewer's timeline.
type FeedItem struct {
	Post
	Username      string `json:"username"`
	LikedByViewer bool   `json:"liked_by_viewer"`
}
