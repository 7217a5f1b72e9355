// Package testing provides test utilities, in-memory repository fakes and
// database setup for testing the content targeting system
package testing

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/blogkit/blogkit/models"
	"github.com/blogkit/blogkit/repository"
	"github.com/blogkit/blogkit/utils"
	"github.com/google/uuid"
)

// deepCopy round-trips a value through json so fakes hand out isolated
// copies, matching how a real database behaves.
func deepCopy[T any](src, dst *T) {
	raw, _ := json.Marshal(src)
	_ = json.Unmarshal(raw, dst)
}

// FakePageRepository is an in-memory PageRepository
type FakePageRepository struct {
	mu     sync.Mutex
	nextID uint
	Pages  map[uint]*models.Page

	// SaveCtasErr and SaveFormsErr, when set, fail the next blob write.
	SaveCtasErr  error
	SaveFormsErr error
}

// NewFakePageRepository creates an empty in-memory page repository
func NewFakePageRepository() *FakePageRepository {
	return &FakePageRepository{Pages: map[uint]*models.Page{}}
}

func (r *FakePageRepository) ByID(ctx context.Context, id uint) (*models.Page, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.Pages[id]
	if !ok {
		return nil, nil
	}
	var out models.Page
	deepCopy(row, &out)
	return &out, nil
}

func (r *FakePageRepository) ByUUID(ctx context.Context, id uuid.UUID) (*models.Page, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, row := range r.Pages {
		if row.UUID == id {
			var out models.Page
			deepCopy(row, &out)
			return &out, nil
		}
	}
	return nil, nil
}

func (r *FakePageRepository) ListByWorkspace(ctx context.Context, workspaceID uint) ([]*models.Page, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Page
	for _, row := range r.Pages {
		if row.WorkspaceID == workspaceID {
			var cp models.Page
			deepCopy(row, &cp)
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *FakePageRepository) Save(ctx context.Context, entity *models.Page) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if entity.ID == 0 {
		r.nextID++
		entity.ID = r.nextID
	}
	if entity.UUID == uuid.Nil {
		entity.UUID = uuid.New()
	}
	if entity.CreatedAt.IsZero() {
		entity.CreatedAt = utils.UTCNow()
	}
	if entity.IsActive == nil {
		entity.IsActive = utils.ToPtr(true)
	}
	var cp models.Page
	deepCopy(entity, &cp)
	r.Pages[entity.ID] = &cp
	return nil
}

func (r *FakePageRepository) SaveBatch(ctx context.Context, entities []*models.Page) error {
	for _, e := range entities {
		if err := r.Save(ctx, e); err != nil {
			return err
		}
	}
	return nil
}

func (r *FakePageRepository) ByFilter(ctx context.Context, filter models.PageFilter, orderBy string, limit, offset int) ([]*models.Page, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Page
	for _, row := range r.Pages {
		if filter.WorkspaceID != nil && row.WorkspaceID != *filter.WorkspaceID {
			continue
		}
		if filter.UUID != nil && row.UUID != *filter.UUID {
			continue
		}
		var cp models.Page
		deepCopy(row, &cp)
		out = append(out, &cp)
	}
	return out, nil
}

func (r *FakePageRepository) Count(ctx context.Context, filter models.PageFilter) (int64, error) {
	rows, err := r.ByFilter(ctx, filter, "", 0, 0)
	return int64(len(rows)), err
}

func (r *FakePageRepository) Exists(ctx context.Context, filter models.PageFilter) (bool, error) {
	c, err := r.Count(ctx, filter)
	return c > 0, err
}

func (r *FakePageRepository) LoadCtasConfig(ctx context.Context, pageID uint) (*models.CtasConfig, models.StringMap, models.StringMap, *string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.Pages[pageID]
	if !ok {
		return nil, nil, nil, nil, repository.ErrPageNotFound
	}

	var cfg models.CtasConfig
	deepCopy(&row.CtasConfig, &cfg)
	if cfg.Ctas == nil {
		cfg.Ctas = []models.CtaDefinition{}
	}
	catMap := row.CategoryCtaMapping.Clone()
	if catMap == nil {
		catMap = models.StringMap{}
	}
	tagMap := row.TagCtaMapping.Clone()
	if tagMap == nil {
		tagMap = models.StringMap{}
	}
	var global *string
	if row.GlobalDefaultCtaID != nil {
		g := *row.GlobalDefaultCtaID
		global = &g
	}
	return &cfg, catMap, tagMap, global, nil
}

func (r *FakePageRepository) SaveCtasConfig(ctx context.Context, pageID uint, cfg *models.CtasConfig, categoryMapping, tagMapping models.StringMap, globalDefaultCtaID *string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.SaveCtasErr != nil {
		err := r.SaveCtasErr
		r.SaveCtasErr = nil
		return err
	}
	row, ok := r.Pages[pageID]
	if !ok {
		return repository.ErrPageNotFound
	}
	now := utils.UTCNow()
	cfg.LastUpdated = &now
	deepCopy(cfg, &row.CtasConfig)
	row.CategoryCtaMapping = categoryMapping.Clone()
	row.TagCtaMapping = tagMapping.Clone()
	row.GlobalDefaultCtaID = globalDefaultCtaID
	row.UpdatedAt = now
	return nil
}

func (r *FakePageRepository) LoadFormsConfig(ctx context.Context, pageID uint) (*models.FormsConfig, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.Pages[pageID]
	if !ok {
		return nil, repository.ErrPageNotFound
	}
	var cfg models.FormsConfig
	deepCopy(&row.FormsConfig, &cfg)
	if cfg.Forms == nil {
		cfg.Forms = []models.FormDefinition{}
	}
	if cfg.CategoryFormMapping == nil {
		cfg.CategoryFormMapping = map[string]string{}
	}
	if cfg.TagFormMapping == nil {
		cfg.TagFormMapping = map[string]string{}
	}
	return &cfg, nil
}

func (r *FakePageRepository) SaveFormsConfig(ctx context.Context, pageID uint, cfg *models.FormsConfig) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.SaveFormsErr != nil {
		err := r.SaveFormsErr
		r.SaveFormsErr = nil
		return err
	}
	row, ok := r.Pages[pageID]
	if !ok {
		return repository.ErrPageNotFound
	}
	now := utils.UTCNow()
	cfg.LastUpdated = &now
	deepCopy(cfg, &row.FormsConfig)
	row.UpdatedAt = now
	return nil
}

// FakeBlogPostRepository is an in-memory BlogPostRepository
type FakeBlogPostRepository struct {
	mu     sync.Mutex
	nextID uint
	Posts  map[uint]*models.BlogPost

	// StatusErrFor fails status updates for the given post uuids, to
	// exercise partial failure in bulk actions.
	StatusErrFor map[string]error
}

// NewFakeBlogPostRepository creates an empty in-memory post repository
func NewFakeBlogPostRepository() *FakeBlogPostRepository {
	return &FakeBlogPostRepository{
		Posts:        map[uint]*models.BlogPost{},
		StatusErrFor: map[string]error{},
	}
}

func (r *FakeBlogPostRepository) ByID(ctx context.Context, id uint) (*models.BlogPost, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.Posts[id]
	if !ok {
		return nil, nil
	}
	var out models.BlogPost
	deepCopy(row, &out)
	return &out, nil
}

func (r *FakeBlogPostRepository) ByUUID(ctx context.Context, id uuid.UUID) (*models.BlogPost, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, row := range r.Posts {
		if row.UUID == id {
			var out models.BlogPost
			deepCopy(row, &out)
			return &out, nil
		}
	}
	return nil, nil
}

func (r *FakeBlogPostRepository) ListByUUIDs(ctx context.Context, pageID uint, uuids []string) ([]*models.BlogPost, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	want := make(map[string]bool, len(uuids))
	for _, id := range uuids {
		want[id] = true
	}
	var out []*models.BlogPost
	for _, row := range r.Posts {
		if row.PageID == pageID && want[row.UUID.String()] {
			var cp models.BlogPost
			deepCopy(row, &cp)
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *FakeBlogPostRepository) Save(ctx context.Context, entity *models.BlogPost) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if entity.ID == 0 {
		r.nextID++
		entity.ID = r.nextID
	}
	if entity.UUID == uuid.Nil {
		entity.UUID = uuid.New()
	}
	if entity.CreatedAt.IsZero() {
		entity.CreatedAt = utils.UTCNow()
	}
	if entity.Status == "" {
		entity.Status = models.PostStatusDraft
	}
	var cp models.BlogPost
	deepCopy(entity, &cp)
	r.Posts[entity.ID] = &cp
	return nil
}

func (r *FakeBlogPostRepository) SaveBatch(ctx context.Context, entities []*models.BlogPost) error {
	for _, e := range entities {
		if err := r.Save(ctx, e); err != nil {
			return err
		}
	}
	return nil
}

func (r *FakeBlogPostRepository) ByFilter(ctx context.Context, filter models.BlogPostFilter, orderBy string, limit, offset int) ([]*models.BlogPost, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.BlogPost
	for _, row := range r.Posts {
		if filter.PageID != nil && row.PageID != *filter.PageID {
			continue
		}
		if filter.Status != nil && row.Status != *filter.Status {
			continue
		}
		var cp models.BlogPost
		deepCopy(row, &cp)
		out = append(out, &cp)
	}
	return out, nil
}

func (r *FakeBlogPostRepository) Count(ctx context.Context, filter models.BlogPostFilter) (int64, error) {
	rows, err := r.ByFilter(ctx, filter, "", 0, 0)
	return int64(len(rows)), err
}

func (r *FakeBlogPostRepository) Exists(ctx context.Context, filter models.BlogPostFilter) (bool, error) {
	c, err := r.Count(ctx, filter)
	return c > 0, err
}

func (r *FakeBlogPostRepository) UpdateStatus(ctx context.Context, postID uint, status models.PostStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.Posts[postID]
	if !ok {
		return nil
	}
	if err, failing := r.StatusErrFor[row.UUID.String()]; failing {
		return err
	}
	row.Status = status
	now := utils.UTCNow()
	if status == models.PostStatusPublished && row.PublishedAt == nil {
		row.PublishedAt = &now
	}
	row.UpdatedAt = now
	return nil
}

func (r *FakeBlogPostRepository) ReplaceCategories(ctx context.Context, postID uint, categoryIDs []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if row, ok := r.Posts[postID]; ok {
		row.CategoryIDs = append(models.StringSlice{}, categoryIDs...)
		row.UpdatedAt = utils.UTCNow()
	}
	return nil
}

func (r *FakeBlogPostRepository) ReplaceTags(ctx context.Context, postID uint, tagIDs []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if row, ok := r.Posts[postID]; ok {
		row.TagIDs = append(models.StringSlice{}, tagIDs...)
		row.UpdatedAt = utils.UTCNow()
	}
	return nil
}

func (r *FakeBlogPostRepository) ReplaceAuthors(ctx context.Context, postID uint, primaryAuthorID *string, coAuthorIDs []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if row, ok := r.Posts[postID]; ok {
		row.PrimaryAuthorID = primaryAuthorID
		row.CoAuthorIDs = append(models.StringSlice{}, coAuthorIDs...)
		row.UpdatedAt = utils.UTCNow()
	}
	return nil
}

func (r *FakeBlogPostRepository) DeleteByUUID(ctx context.Context, pageID uint, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for key, row := range r.Posts {
		if row.PageID == pageID && row.UUID == id {
			delete(r.Posts, key)
			return nil
		}
	}
	return nil
}

// FakeCategoryRepository is an in-memory CategoryRepository
type FakeCategoryRepository struct {
	mu     sync.Mutex
	nextID uint
	Rows   map[uint]*models.Category
}

// NewFakeCategoryRepository creates an empty in-memory category repository
func NewFakeCategoryRepository() *FakeCategoryRepository {
	return &FakeCategoryRepository{Rows: map[uint]*models.Category{}}
}

func (r *FakeCategoryRepository) ByID(ctx context.Context, id uint) (*models.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.Rows[id]
	if !ok {
		return nil, nil
	}
	cp := *row
	return &cp, nil
}

func (r *FakeCategoryRepository) ByUUID(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, row := range r.Rows {
		if row.UUID == id {
			cp := *row
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *FakeCategoryRepository) ListByPage(ctx context.Context, pageID uint) ([]*models.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Category
	for _, row := range r.Rows {
		if row.PageID == pageID {
			cp := *row
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *FakeCategoryRepository) ListByUUIDs(ctx context.Context, pageID uint, uuids []string) ([]*models.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	want := make(map[string]bool, len(uuids))
	for _, id := range uuids {
		want[id] = true
	}
	var out []*models.Category
	for _, row := range r.Rows {
		if row.PageID == pageID && want[row.UUID.String()] {
			cp := *row
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *FakeCategoryRepository) Save(ctx context.Context, entity *models.Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if entity.ID == 0 {
		r.nextID++
		entity.ID = r.nextID
	}
	if entity.UUID == uuid.Nil {
		entity.UUID = uuid.New()
	}
	if entity.CreatedAt.IsZero() {
		entity.CreatedAt = utils.UTCNow()
	}
	cp := *entity
	r.Rows[entity.ID] = &cp
	return nil
}

func (r *FakeCategoryRepository) SaveBatch(ctx context.Context, entities []*models.Category) error {
	for _, e := range entities {
		if err := r.Save(ctx, e); err != nil {
			return err
		}
	}
	return nil
}

func (r *FakeCategoryRepository) ByFilter(ctx context.Context, filter models.CategoryFilter, orderBy string, limit, offset int) ([]*models.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Category
	for _, row := range r.Rows {
		if filter.PageID != nil && row.PageID != *filter.PageID {
			continue
		}
		if filter.Slug != nil && row.Slug != *filter.Slug {
			continue
		}
		cp := *row
		out = append(out, &cp)
	}
	return out, nil
}

func (r *FakeCategoryRepository) Count(ctx context.Context, filter models.CategoryFilter) (int64, error) {
	rows, err := r.ByFilter(ctx, filter, "", 0, 0)
	return int64(len(rows)), err
}

func (r *FakeCategoryRepository) Exists(ctx context.Context, filter models.CategoryFilter) (bool, error) {
	c, err := r.Count(ctx, filter)
	return c > 0, err
}

// FakeTagRepository is an in-memory TagRepository
type FakeTagRepository struct {
	mu     sync.Mutex
	nextID uint
	Rows   map[uint]*models.Tag
}

// NewFakeTagRepository creates an empty in-memory tag repository
func NewFakeTagRepository() *FakeTagRepository {
	return &FakeTagRepository{Rows: map[uint]*models.Tag{}}
}

func (r *FakeTagRepository) ByID(ctx context.Context, id uint) (*models.Tag, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.Rows[id]
	if !ok {
		return nil, nil
	}
	cp := *row
	return &cp, nil
}

func (r *FakeTagRepository) ByUUID(ctx context.Context, id uuid.UUID) (*models.Tag, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, row := range r.Rows {
		if row.UUID == id {
			cp := *row
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *FakeTagRepository) ListByPage(ctx context.Context, pageID uint) ([]*models.Tag, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Tag
	for _, row := range r.Rows {
		if row.PageID == pageID {
			cp := *row
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *FakeTagRepository) ListByUUIDs(ctx context.Context, pageID uint, uuids []string) ([]*models.Tag, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	want := make(map[string]bool, len(uuids))
	for _, id := range uuids {
		want[id] = true
	}
	var out []*models.Tag
	for _, row := range r.Rows {
		if row.PageID == pageID && want[row.UUID.String()] {
			cp := *row
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *FakeTagRepository) Save(ctx context.Context, entity *models.Tag) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if entity.ID == 0 {
		r.nextID++
		entity.ID = r.nextID
	}
	if entity.UUID == uuid.Nil {
		entity.UUID = uuid.New()
	}
	if entity.CreatedAt.IsZero() {
		entity.CreatedAt = utils.UTCNow()
	}
	cp := *entity
	r.Rows[entity.ID] = &cp
	return nil
}

func (r *FakeTagRepository) SaveBatch(ctx context.Context, entities []*models.Tag) error {
	for _, e := range entities {
		if err := r.Save(ctx, e); err != nil {
			return err
		}
	}
	return nil
}

func (r *FakeTagRepository) ByFilter(ctx context.Context, filter models.TagFilter, orderBy string, limit, offset int) ([]*models.Tag, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Tag
	for _, row := range r.Rows {
		if filter.PageID != nil && row.PageID != *filter.PageID {
			continue
		}
		if filter.Slug != nil && row.Slug != *filter.Slug {
			continue
		}
		cp := *row
		out = append(out, &cp)
	}
	return out, nil
}

func (r *FakeTagRepository) Count(ctx context.Context, filter models.TagFilter) (int64, error) {
	rows, err := r.ByFilter(ctx, filter, "", 0, 0)
	return int64(len(rows)), err
}

func (r *FakeTagRepository) Exists(ctx context.Context, filter models.TagFilter) (bool, error) {
	c, err := r.Count(ctx, filter)
	return c > 0, err
}

// FakeAuthorRepository is an in-memory AuthorRepository
type FakeAuthorRepository struct {
	mu     sync.Mutex
	nextID uint
	Rows   map[uint]*models.Author
}

// NewFakeAuthorRepository creates an empty in-memory author repository
func NewFakeAuthorRepository() *FakeAuthorRepository {
	return &FakeAuthorRepository{Rows: map[uint]*models.Author{}}
}

func (r *FakeAuthorRepository) ByID(ctx context.Context, id uint) (*models.Author, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.Rows[id]
	if !ok {
		return nil, nil
	}
	cp := *row
	return &cp, nil
}

func (r *FakeAuthorRepository) ByUUID(ctx context.Context, id uuid.UUID) (*models.Author, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, row := range r.Rows {
		if row.UUID == id {
			cp := *row
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *FakeAuthorRepository) ListByWorkspace(ctx context.Context, workspaceID uint) ([]*models.Author, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Author
	for _, row := range r.Rows {
		if row.WorkspaceID == workspaceID {
			cp := *row
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *FakeAuthorRepository) ListByUUIDs(ctx context.Context, workspaceID uint, uuids []string) ([]*models.Author, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	want := make(map[string]bool, len(uuids))
	for _, id := range uuids {
		want[id] = true
	}
	var out []*models.Author
	for _, row := range r.Rows {
		if row.WorkspaceID == workspaceID && want[row.UUID.String()] {
			cp := *row
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *FakeAuthorRepository) Save(ctx context.Context, entity *models.Author) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if entity.ID == 0 {
		r.nextID++
		entity.ID = r.nextID
	}
	if entity.UUID == uuid.Nil {
		entity.UUID = uuid.New()
	}
	if entity.CreatedAt.IsZero() {
		entity.CreatedAt = utils.UTCNow()
	}
	cp := *entity
	r.Rows[entity.ID] = &cp
	return nil
}

func (r *FakeAuthorRepository) SaveBatch(ctx context.Context, entities []*models.Author) error {
	for _, e := range entities {
		if err := r.Save(ctx, e); err != nil {
			return err
		}
	}
	return nil
}

func (r *FakeAuthorRepository) ByFilter(ctx context.Context, filter models.AuthorFilter, orderBy string, limit, offset int) ([]*models.Author, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Author
	for _, row := range r.Rows {
		if filter.WorkspaceID != nil && row.WorkspaceID != *filter.WorkspaceID {
			continue
		}
		cp := *row
		out = append(out, &cp)
	}
	return out, nil
}

func (r *FakeAuthorRepository) Count(ctx context.Context, filter models.AuthorFilter) (int64, error) {
	rows, err := r.ByFilter(ctx, filter, "", 0, 0)
	return int64(len(rows)), err
}

func (r *FakeAuthorRepository) Exists(ctx context.Context, filter models.AuthorFilter) (bool, error) {
	c, err := r.Count(ctx, filter)
	return c > 0, err
}

// FakeWorkspaceRepository is an in-memory WorkspaceRepository
type FakeWorkspaceRepository struct {
	mu         sync.Mutex
	nextID     uint
	Workspaces map[uint]*models.Workspace
	Members    []*models.WorkspaceMember
}

// NewFakeWorkspaceRepository creates an empty in-memory workspace repository
func NewFakeWorkspaceRepository() *FakeWorkspaceRepository {
	return &FakeWorkspaceRepository{Workspaces: map[uint]*models.Workspace{}}
}

func (r *FakeWorkspaceRepository) ByID(ctx context.Context, id uint) (*models.Workspace, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.Workspaces[id]
	if !ok {
		return nil, nil
	}
	cp := *row
	return &cp, nil
}

func (r *FakeWorkspaceRepository) ByUUID(ctx context.Context, id uuid.UUID) (*models.Workspace, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, row := range r.Workspaces {
		if row.UUID == id {
			cp := *row
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *FakeWorkspaceRepository) MemberRole(ctx context.Context, workspaceID, userID uint) (*models.WorkspaceRole, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.Members {
		if m.WorkspaceID == workspaceID && m.UserID == userID {
			role := m.Role
			return &role, nil
		}
	}
	return nil, nil
}

func (r *FakeWorkspaceRepository) SaveMember(ctx context.Context, member *models.WorkspaceMember) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *member
	r.Members = append(r.Members, &cp)
	return nil
}

func (r *FakeWorkspaceRepository) ListMembers(ctx context.Context, workspaceID uint) ([]*models.WorkspaceMember, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.WorkspaceMember
	for _, m := range r.Members {
		if m.WorkspaceID == workspaceID {
			cp := *m
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *FakeWorkspaceRepository) Save(ctx context.Context, entity *models.Workspace) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if entity.ID == 0 {
		r.nextID++
		entity.ID = r.nextID
	}
	if entity.UUID == uuid.Nil {
		entity.UUID = uuid.New()
	}
	if entity.CreatedAt.IsZero() {
		entity.CreatedAt = utils.UTCNow()
	}
	if entity.IsActive == nil {
		entity.IsActive = utils.ToPtr(true)
	}
	cp := *entity
	r.Workspaces[entity.ID] = &cp
	return nil
}

func (r *FakeWorkspaceRepository) SaveBatch(ctx context.Context, entities []*models.Workspace) error {
	for _, e := range entities {
		if err := r.Save(ctx, e); err != nil {
			return err
		}
	}
	return nil
}

func (r *FakeWorkspaceRepository) ByFilter(ctx context.Context, filter models.WorkspaceFilter, orderBy string, limit, offset int) ([]*models.Workspace, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Workspace
	for _, row := range r.Workspaces {
		if filter.Slug != nil && row.Slug != *filter.Slug {
			continue
		}
		cp := *row
		out = append(out, &cp)
	}
	return out, nil
}

func (r *FakeWorkspaceRepository) Count(ctx context.Context, filter models.WorkspaceFilter) (int64, error) {
	rows, err := r.ByFilter(ctx, filter, "", 0, 0)
	return int64(len(rows)), err
}

func (r *FakeWorkspaceRepository) Exists(ctx context.Context, filter models.WorkspaceFilter) (bool, error) {
	c, err := r.Count(ctx, filter)
	return c > 0, err
}

// FakeAuditLogRepository is an in-memory AuditLogRepository
type FakeAuditLogRepository struct {
	mu      sync.Mutex
	nextID  uint
	Entries []*models.AuditLog
}

// NewFakeAuditLogRepository creates an empty in-memory audit log repository
func NewFakeAuditLogRepository() *FakeAuditLogRepository {
	return &FakeAuditLogRepository{}
}

func (r *FakeAuditLogRepository) ByID(ctx context.Context, id uint) (*models.AuditLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, row := range r.Entries {
		if row.ID == id {
			cp := *row
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *FakeAuditLogRepository) Save(ctx context.Context, entity *models.AuditLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	entity.ID = r.nextID
	if entity.CreatedAt.IsZero() {
		entity.CreatedAt = utils.UTCNow()
	}
	cp := *entity
	r.Entries = append(r.Entries, &cp)
	return nil
}

func (r *FakeAuditLogRepository) SaveBatch(ctx context.Context, entities []*models.AuditLog) error {
	for _, e := range entities {
		if err := r.Save(ctx, e); err != nil {
			return err
		}
	}
	return nil
}

func (r *FakeAuditLogRepository) ByFilter(ctx context.Context, filter models.AuditLogFilter, orderBy string, limit, offset int) ([]*models.AuditLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.AuditLog
	for _, row := range r.Entries {
		if filter.Action != nil && row.Action != *filter.Action {
			continue
		}
		cp := *row
		out = append(out, &cp)
	}
	return out, nil
}

func (r *FakeAuditLogRepository) Count(ctx context.Context, filter models.AuditLogFilter) (int64, error) {
	rows, err := r.ByFilter(ctx, filter, "", 0, 0)
	return int64(len(rows)), err
}

func (r *FakeAuditLogRepository) Exists(ctx context.Context, filter models.AuditLogFilter) (bool, error) {
	c, err := r.Count(ctx, filter)
	return c > 0, err
}

func (r *FakeAuditLogRepository) ListByWorkspace(ctx context.Context, workspaceID uint, limit, offset int) ([]*models.AuditLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.AuditLog
	for _, row := range r.Entries {
		if row.WorkspaceID != nil && *row.WorkspaceID == workspaceID {
			cp := *row
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *FakeAuditLogRepository) ListByAction(ctx context.Context, action string, limit, offset int) ([]*models.AuditLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.AuditLog
	for _, row := range r.Entries {
		if row.Action == action {
			cp := *row
			out = append(out, &cp)
		}
	}
	return out, nil
}

// FakeFormSubmissionRepository is an in-memory FormSubmissionRepository
type FakeFormSubmissionRepository struct {
	mu     sync.Mutex
	nextID uint
	Rows   []*models.FormSubmission
}

// NewFakeFormSubmissionRepository creates an empty in-memory submission repository
func NewFakeFormSubmissionRepository() *FakeFormSubmissionRepository {
	return &FakeFormSubmissionRepository{}
}

func (r *FakeFormSubmissionRepository) ByID(ctx context.Context, id uint) (*models.FormSubmission, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, row := range r.Rows {
		if row.ID == id {
			var cp models.FormSubmission
			deepCopy(row, &cp)
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *FakeFormSubmissionRepository) Save(ctx context.Context, entity *models.FormSubmission) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	entity.ID = r.nextID
	if entity.UUID == uuid.Nil {
		entity.UUID = uuid.New()
	}
	if entity.CreatedAt.IsZero() {
		entity.CreatedAt = utils.UTCNow()
	}
	var cp models.FormSubmission
	deepCopy(entity, &cp)
	r.Rows = append(r.Rows, &cp)
	return nil
}

func (r *FakeFormSubmissionRepository) SaveBatch(ctx context.Context, entities []*models.FormSubmission) error {
	for _, e := range entities {
		if err := r.Save(ctx, e); err != nil {
			return err
		}
	}
	return nil
}

func (r *FakeFormSubmissionRepository) ByFilter(ctx context.Context, filter models.FormSubmissionFilter, orderBy string, limit, offset int) ([]*models.FormSubmission, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.FormSubmission
	for _, row := range r.Rows {
		if filter.PageID != nil && row.PageID != *filter.PageID {
			continue
		}
		if filter.FormID != nil && row.FormID != *filter.FormID {
			continue
		}
		var cp models.FormSubmission
		deepCopy(row, &cp)
		out = append(out, &cp)
	}
	return out, nil
}

func (r *FakeFormSubmissionRepository) Count(ctx context.Context, filter models.FormSubmissionFilter) (int64, error) {
	rows, err := r.ByFilter(ctx, filter, "", 0, 0)
	return int64(len(rows)), err
}

func (r *FakeFormSubmissionRepository) Exists(ctx context.Context, filter models.FormSubmissionFilter) (bool, error) {
	c, err := r.Count(ctx, filter)
	return c > 0, err
}

func (r *FakeFormSubmissionRepository) ListByForm(ctx context.Context, pageID uint, formID string, limit, offset int) ([]*models.FormSubmission, error) {
	return r.ByFilter(ctx, models.FormSubmissionFilter{PageID: &pageID, FormID: &formID}, "", limit, offset)
}
