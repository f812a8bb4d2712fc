package mocks

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/community-cms-api/internal/models"
	"github.com/community-cms-api/internal/repository"
)

var idSeq struct {
	sync.Mutex
	n int
}

func nextID(prefix string) string {
	idSeq.Lock()
	defer idSeq.Unlock()
	idSeq.n++
	return fmt.Sprintf("%s-%d", prefix, idSeq.n)
}

// NewRepositories wires in-memory repositories into a repository.Repositories
func NewRepositories() (*repository.Repositories, *Store) {
	st := &Store{
		Pages:     NewMockCommunityPageRepository(),
		Selection: NewMockSelectionRepository(),
		FAQs:      NewMockFAQRepository(),
		Reviews:   NewMockReviewRepository(),
		Resources: NewMockResourceRepository(),
	}
	return &repository.Repositories{
		CommunityPage: st.Pages,
		Selection:     st.Selection,
		FAQ:           st.FAQs,
		Review:        st.Reviews,
		Resource:      st.Resources,
	}, st
}

// Store gives tests access to the concrete mocks behind NewRepositories
type Store struct {
	Pages     *MockCommunityPageRepository
	Selection *MockSelectionRepository
	FAQs      *MockFAQRepository
	Reviews   *MockReviewRepository
	Resources *MockResourceRepository
}

// MockCommunityPageRepository is a mock implementation of CommunityPageRepository
type MockCommunityPageRepository struct {
	mu          sync.Mutex
	Pages       map[string]*models.CommunityPage
	UpsertError error
	UpsertCalls int
}

var _ repository.CommunityPageRepository = (*MockCommunityPageRepository)(nil)

func NewMockCommunityPageRepository() *MockCommunityPageRepository {
	return &MockCommunityPageRepository{Pages: make(map[string]*models.CommunityPage)}
}

func (m *MockCommunityPageRepository) UpsertByCommunity(ctx context.Context, page *models.CommunityPage) (*models.CommunityPage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.UpsertCalls++
	if m.UpsertError != nil {
		return nil, m.UpsertError
	}

	var existing *models.CommunityPage
	for _, p := range m.Pages {
		if p.Community == page.Community {
			existing = p
			break
		}
	}

	saved := *page
	switch {
	case existing == nil:
		saved.ID = nextID("page")
	default:
		saved.ID = existing.ID
		if page.HeroImage == "" && page.HeroImageURL == "" {
			saved.HeroImage = existing.HeroImage
			saved.HeroImageURL = existing.HeroImageURL
		}
	}
	m.Pages[saved.ID] = &saved

	out := saved
	return &out, nil
}

func (m *MockCommunityPageRepository) List(ctx context.Context) ([]*models.CommunityPage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	pages := make([]*models.CommunityPage, 0, len(m.Pages))
	for _, p := range m.Pages {
		pages = append(pages, p)
	}
	sort.Slice(pages, func(i, j int) bool { return pages[i].UpdatedAt.After(pages[j].UpdatedAt) })
	return pages, nil
}

func (m *MockCommunityPageRepository) GetByID(ctx context.Context, id string) (*models.CommunityPage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Pages[id], nil
}

func (m *MockCommunityPageRepository) GetBySlug(ctx context.Context, slug string) (*models.CommunityPage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.Pages {
		if p.Slug == slug {
			return p, nil
		}
	}
	return nil, nil
}

// GetByIDs returns matches in map order, like a store without a sort
func (m *MockCommunityPageRepository) GetByIDs(ctx context.Context, ids []string) ([]*models.CommunityPage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	want := make(map[string]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	pages := make([]*models.CommunityPage, 0, len(ids))
	for id, p := range m.Pages {
		if want[id] {
			pages = append(pages, p)
		}
	}
	return pages, nil
}

func (m *MockCommunityPageRepository) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.Pages, id)
	return nil
}

// MockSelectionRepository is a mock implementation of SelectionRepository
type MockSelectionRepository struct {
	mu       sync.Mutex
	Selected []string
	Saves    int
}

var _ repository.SelectionRepository = (*MockSelectionRepository)(nil)

func NewMockSelectionRepository() *MockSelectionRepository {
	return &MockSelectionRepository{}
}

func (m *MockSelectionRepository) Get(ctx context.Context) (*models.SelectedCommunities, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	selected := make([]string, len(m.Selected))
	copy(selected, m.Selected)
	return &models.SelectedCommunities{Selected: selected}, nil
}

func (m *MockSelectionRepository) Save(ctx context.Context, selected []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Saves++
	m.Selected = append([]string(nil), selected...)
	return nil
}

// MockFAQRepository is a mock implementation of FAQRepository
type MockFAQRepository struct {
	mu   sync.Mutex
	FAQs map[string]*models.FAQ
}

var _ repository.FAQRepository = (*MockFAQRepository)(nil)

func NewMockFAQRepository() *MockFAQRepository {
	return &MockFAQRepository{FAQs: make(map[string]*models.FAQ)}
}

func (m *MockFAQRepository) List(ctx context.Context) ([]*models.FAQ, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	faqs := make([]*models.FAQ, 0, len(m.FAQs))
	for _, f := range m.FAQs {
		faqs = append(faqs, f)
	}
	sort.Slice(faqs, func(i, j int) bool { return faqs[i].CreatedAt.After(faqs[j].CreatedAt) })
	return faqs, nil
}

func (m *MockFAQRepository) Create(ctx context.Context, faq *models.FAQ) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	faq.ID = nextID("faq")
	stored := *faq
	m.FAQs[faq.ID] = &stored
	return nil
}

func (m *MockFAQRepository) Replace(ctx context.Context, id string, req *models.FAQRequest) (*models.FAQ, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	faq, ok := m.FAQs[id]
	if !ok {
		return nil, nil
	}
	faq.Category = req.Category
	faq.Question = req.Question
	faq.Answer = req.Answer
	out := *faq
	return &out, nil
}

func (m *MockFAQRepository) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.FAQs, id)
	return nil
}

// MockReviewRepository is a mock implementation of GoogleReviewRepository
type MockReviewRepository struct {
	mu          sync.Mutex
	Reviews     map[string]*models.GoogleReview // keyed by GoogleReviewID
	UpsertError error
	// FailAfter makes the upsert fail once this many reviews were written; zero disables it
	FailAfter   int
	UpsertCalls int
}

var _ repository.GoogleReviewRepository = (*MockReviewRepository)(nil)

func NewMockReviewRepository() *MockReviewRepository {
	return &MockReviewRepository{Reviews: make(map[string]*models.GoogleReview)}
}

func (m *MockReviewRepository) UpsertByGoogleID(ctx context.Context, review *models.GoogleReview) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.UpsertError != nil && m.UpsertCalls >= m.FailAfter {
		m.UpsertCalls++
		return m.UpsertError
	}
	m.UpsertCalls++

	stored := *review
	if existing, ok := m.Reviews[review.GoogleReviewID]; ok {
		stored.ID = existing.ID
		stored.IsSelected = existing.IsSelected
	} else {
		stored.ID = nextID("review")
		stored.IsSelected = false
	}
	m.Reviews[review.GoogleReviewID] = &stored
	return nil
}

func (m *MockReviewRepository) List(ctx context.Context) ([]*models.GoogleReview, error) {
	return m.filter(func(*models.GoogleReview) bool { return true }), nil
}

func (m *MockReviewRepository) ListSelected(ctx context.Context) ([]*models.GoogleReview, error) {
	return m.filter(func(r *models.GoogleReview) bool { return r.IsSelected }), nil
}

func (m *MockReviewRepository) SetSelected(ctx context.Context, ids []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	want := make(map[string]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	for _, r := range m.Reviews {
		r.IsSelected = want[r.ID]
	}
	return nil
}

func (m *MockReviewRepository) filter(keep func(*models.GoogleReview) bool) []*models.GoogleReview {
	m.mu.Lock()
	defer m.mu.Unlock()
	reviews := make([]*models.GoogleReview, 0, len(m.Reviews))
	for _, r := range m.Reviews {
		if keep(r) {
			out := *r
			reviews = append(reviews, &out)
		}
	}
	sort.Slice(reviews, func(i, j int) bool { return reviews[i].ReviewDate > reviews[j].ReviewDate })
	return reviews
}

// MockResourceRepository is a mock implementation of ResourceRepository
type MockResourceRepository struct {
	mu          sync.Mutex
	Resources   map[string]*models.Resource
	CreateError error
}

var _ repository.ResourceRepository = (*MockResourceRepository)(nil)

func NewMockResourceRepository() *MockResourceRepository {
	return &MockResourceRepository{Resources: make(map[string]*models.Resource)}
}

func (m *MockResourceRepository) Create(ctx context.Context, resource *models.Resource) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.CreateError != nil {
		return m.CreateError
	}
	resource.ID = nextID("resource")
	stored := *resource
	m.Resources[resource.ID] = &stored
	return nil
}

func (m *MockResourceRepository) List(ctx context.Context) ([]*models.Resource, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	resources := make([]*models.Resource, 0, len(m.Resources))
	for _, r := range m.Resources {
		resources = append(resources, r)
	}
	sort.Slice(resources, func(i, j int) bool { return resources[i].CreatedAt.After(resources[j].CreatedAt) })
	return resources, nil
}

func (m *MockResourceRepository) GetByID(ctx context.Context, id string) (*models.Resource, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Resources[id], nil
}

func (m *MockResourceRepository) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.Resources, id)
	return nil
}
