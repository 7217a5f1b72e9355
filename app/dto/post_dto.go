package dto

// Bulk post action names
const (
	BulkActionPublish       = "publish"
	BulkActionDraft         = "draft"
	BulkActionArchive       = "archive"
	BulkActionDelete        = "delete"
	BulkActionSetCategories = "set_categories"
	BulkActionSetTags       = "set_tags"
	BulkActionSetAuthors    = "set_authors"
)

// BulkPostRequest applies one action to a set of posts on a page. The
// payload lists (already validated to exist) taxonomy or author uuids for
// the set_* actions and is ignored otherwise.
type BulkPostRequest struct {
	UserID    uint     `json:"-"`
	PageUUID  string   `json:"page_uuid" validate:"required,uuid4"`
	Action    string   `json:"action" validate:"required,oneof=publish draft archive delete set_categories set_tags set_authors"`
	PostUUIDs []string `json:"post_uuids" validate:"required,min=1,max=200,dive,uuid4"`
	Payload   []string `json:"payload" validate:"omitempty,max=100,dive,uuid4"`
}

// BulkPostResult reports the outcome for one post of a bulk action
type BulkPostResult struct {
	PostUUID string `json:"post_uuid"`
	Success  bool   `json:"success"`
}

// BulkPostResponse reports the posts a bulk action was applied to. A batch
// that fails partway returns an error instead, so Results only ever lists
// successful updates.
type BulkPostResponse struct {
	Action    string           `json:"action"`
	Succeeded int              `json:"succeeded"`
	Results   []BulkPostResult `json:"results"`
}

// PostDTO is the API projection of a blog post
type PostDTO struct {
	UUID            string   `json:"uuid"`
	Title           string   `json:"title"`
	Slug            string   `json:"slug"`
	Status          string   `json:"status"`
	CategoryIDs     []string `json:"category_ids"`
	TagIDs          []string `json:"tag_ids"`
	PrimaryAuthorID *string  `json:"primary_author_id"`
	CoAuthorIDs     []string `json:"co_author_ids"`
	PublishedAt     *string  `json:"published_at"`
	CreatedAt       string   `json:"created_at"`
	UpdatedAt       string   `json:"updated_at"`
}

// ListPostsRequest lists posts of a page
type ListPostsRequest struct {
	PageUUID string `json:"page_uuid" validate:"required,uuid4"`
	Status   string `json:"status" validate:"omitempty,oneof=DRAFT PUBLISHED ARCHIVED"`
	Page     int    `json:"page" validate:"omitempty,min=1"`
	PageSize int    `json:"page_size" validate:"omitempty,min=1,max=100"`
}

// ListPostsResponse lists posts with pagination
type ListPostsResponse struct {
	Posts      []PostDTO      `json:"posts"`
	Pagination PaginationInfo `json:"pagination"`
}
