package service_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/community-cms-api/internal/config"
	"github.com/community-cms-api/internal/mocks"
	"github.com/community-cms-api/internal/models"
	"github.com/community-cms-api/internal/service"
	"github.com/community-cms-api/internal/storage"
	"github.com/community-cms-api/internal/validation"
	"github.com/rs/zerolog"
)

const samplePDF = "%PDF-1.4\n1 0 obj\n<< /Type /Catalog >>\nendobj\ntrailer\n%%EOF\n"

type fixture struct {
	svc    *service.Services
	store  *mocks.Store
	blobs  *mocks.MemoryBlobStore
	source *mocks.MockReviewSource
}

func newFixture() *fixture {
	repos, store := mocks.NewRepositories()
	blobs := mocks.NewMemoryBlobStore()
	source := &mocks.MockReviewSource{}
	cfg := &config.Config{
		Upload: config.UploadConfig{
			MaxResourceSize:  1024,
			MaxImageSize:     1024,
			SweepGracePeriod: time.Hour,
		},
	}
	return &fixture{
		svc:    service.NewServices(repos, blobs, source, cfg, zerolog.Nop()),
		store:  store,
		blobs:  blobs,
		source: source,
	}
}

func pdfUpload(name string) *service.Upload {
	return &service.Upload{
		Filename:    name,
		ContentType: models.PDFMimeType,
		Size:        int64(len(samplePDF)),
		Reader:      strings.NewReader(samplePDF),
	}
}

func TestCommunityService_UpsertTwiceKeepsOneDocument(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	first, err := f.svc.Community.Upsert(ctx, &models.CommunityPageForm{
		Community:   "Willow Creek",
		Slug:        "willow-creek",
		Tagline:     "Old tagline",
		KeyFeatures: "Parks, Trails ,  Schools",
	}, nil)
	if err != nil {
		t.Fatalf("first upsert failed: %v", err)
	}

	second, err := f.svc.Community.Upsert(ctx, &models.CommunityPageForm{
		Community: "Willow Creek",
		Slug:      "willow-creek",
		Tagline:   "New tagline",
	}, nil)
	if err != nil {
		t.Fatalf("second upsert failed: %v", err)
	}

	if first.ID != second.ID {
		t.Errorf("Expected same ID, got %s and %s", first.ID, second.ID)
	}
	if len(f.store.Pages.Pages) != 1 {
		t.Errorf("Expected 1 page, got %d", len(f.store.Pages.Pages))
	}
	if second.Tagline != "New tagline" {
		t.Errorf("Expected latest tagline, got %q", second.Tagline)
	}
	if want := []string{"Parks", "Trails", "Schools"}; strings.Join(first.KeyFeatures, "|") != strings.Join(want, "|") {
		t.Errorf("Expected key features %v, got %v", want, first.KeyFeatures)
	}
	if len(second.KeyFeatures) != 0 {
		t.Errorf("Expected empty key features, got %v", second.KeyFeatures)
	}
}

func TestCommunityService_UpsertValidation(t *testing.T) {
	f := newFixture()

	_, err := f.svc.Community.Upsert(context.Background(), &models.CommunityPageForm{Slug: "x"}, nil)

	var verrs validation.Errors
	if !errors.As(err, &verrs) {
		t.Fatalf("Expected validation errors, got %v", err)
	}
	if verrs[0].Field != "community" {
		t.Errorf("Expected community field error, got %s", verrs[0].Field)
	}
	if f.store.Pages.UpsertCalls != 0 {
		t.Error("Repository should not be called for invalid input")
	}
}

func TestCommunityService_HeroImageExclusive(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	page, err := f.svc.Community.Upsert(ctx, &models.CommunityPageForm{
		Community:    "Lakeside",
		Slug:         "lakeside",
		HeroImageURL: "https://cdn.example.com/lake.jpg",
	}, nil)
	if err != nil {
		t.Fatalf("upsert failed: %v", err)
	}
	if page.HeroImageURL == "" || page.HeroImage != "" {
		t.Fatalf("Expected URL only, got image=%q url=%q", page.HeroImage, page.HeroImageURL)
	}

	img := "jpegdata"
	page, err = f.svc.Community.Upsert(ctx, &models.CommunityPageForm{
		Community:    "Lakeside",
		Slug:         "lakeside",
		HeroImageURL: "https://cdn.example.com/ignored.jpg",
	}, &service.Upload{
		Filename:    "lake front.jpg",
		ContentType: "image/jpeg",
		Size:        int64(len(img)),
		Reader:      strings.NewReader(img),
	})
	if err != nil {
		t.Fatalf("upsert with image failed: %v", err)
	}
	if page.HeroImage == "" || page.HeroImageURL != "" {
		t.Fatalf("Expected uploaded image only, got image=%q url=%q", page.HeroImage, page.HeroImageURL)
	}
	if !strings.HasSuffix(page.HeroImage, "-lake_front.jpg") {
		t.Errorf("Unexpected stored name %q", page.HeroImage)
	}
	if !f.blobs.Has(page.HeroImage) {
		t.Error("Expected hero image to be stored")
	}

	// neither file nor URL keeps what is stored
	page, err = f.svc.Community.Upsert(ctx, &models.CommunityPageForm{Community: "Lakeside", Slug: "lakeside"}, nil)
	if err != nil {
		t.Fatalf("upsert failed: %v", err)
	}
	if page.HeroImage == "" {
		t.Error("Expected hero image to be kept")
	}
}

func TestCommunityService_FailedSaveRemovesHeroImage(t *testing.T) {
	f := newFixture()
	f.store.Pages.UpsertError = errors.New("write failed")

	img := "jpegdata"
	_, err := f.svc.Community.Upsert(context.Background(), &models.CommunityPageForm{
		Community: "Lakeside",
		Slug:      "lakeside",
	}, &service.Upload{Filename: "a.jpg", ContentType: "image/jpeg", Size: int64(len(img)), Reader: strings.NewReader(img)})

	if err == nil {
		t.Fatal("Expected error")
	}
	if f.blobs.Len() != 0 {
		t.Errorf("Expected no stored blobs, got %d", f.blobs.Len())
	}
}

func TestCommunityService_HeroImageTooLarge(t *testing.T) {
	f := newFixture()

	_, err := f.svc.Community.Upsert(context.Background(), &models.CommunityPageForm{
		Community: "Lakeside",
		Slug:      "lakeside",
	}, &service.Upload{Filename: "a.jpg", ContentType: "image/jpeg", Size: 4096, Reader: strings.NewReader("x")})

	if !errors.Is(err, validation.ErrTooLarge) {
		t.Errorf("Expected ErrTooLarge, got %v", err)
	}
	if f.blobs.Len() != 0 {
		t.Error("Nothing should be stored")
	}
}

func TestCommunityService_GetMissing(t *testing.T) {
	f := newFixture()

	if _, err := f.svc.Community.Get(context.Background(), "nope"); !errors.Is(err, service.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
	if _, err := f.svc.Community.GetBySlug(context.Background(), "nope"); !errors.Is(err, service.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestCommunityService_Selection(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	selected, err := f.svc.Community.GetSelection(ctx)
	if err != nil {
		t.Fatalf("GetSelection failed: %v", err)
	}
	if selected == nil || len(selected) != 0 {
		t.Errorf("Expected empty selection, got %v", selected)
	}

	if err := f.svc.Community.SaveSelection(ctx, []string{"b", "a"}); err != nil {
		t.Fatalf("SaveSelection failed: %v", err)
	}
	if err := f.svc.Community.SaveSelection(ctx, []string{"c"}); err != nil {
		t.Fatalf("SaveSelection failed: %v", err)
	}

	selected, _ = f.svc.Community.GetSelection(ctx)
	if len(selected) != 1 || selected[0] != "c" {
		t.Errorf("Expected [c], got %v", selected)
	}
}

func TestCommunityService_PublicCommunities(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	var ids []string
	for _, name := range []string{"Alpha", "Beta", "Gamma"} {
		p, err := f.svc.Community.Upsert(ctx, &models.CommunityPageForm{Community: name, Slug: strings.ToLower(name)}, nil)
		if err != nil {
			t.Fatalf("upsert %s failed: %v", name, err)
		}
		ids = append(ids, p.ID)
	}

	selection := []string{ids[2], "missing-id", ids[0]}
	if err := f.svc.Community.SaveSelection(ctx, selection); err != nil {
		t.Fatalf("SaveSelection failed: %v", err)
	}

	public, err := f.svc.Community.PublicCommunities(ctx)
	if err != nil {
		t.Fatalf("PublicCommunities failed: %v", err)
	}
	if len(public) != 2 {
		t.Fatalf("Expected 2 communities, got %d", len(public))
	}
	if public[0].Community != "Gamma" || public[1].Community != "Alpha" {
		t.Errorf("Expected selection order [Gamma Alpha], got [%s %s]", public[0].Community, public[1].Community)
	}
}

func TestFAQService_CreateDefaultsCategory(t *testing.T) {
	f := newFixture()

	faq, err := f.svc.FAQ.Create(context.Background(), &models.FAQRequest{Question: "  How?  ", Answer: "Like this"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if faq.Category != models.DefaultFAQCategory {
		t.Errorf("Expected category %s, got %s", models.DefaultFAQCategory, faq.Category)
	}
	if faq.Question != "How?" {
		t.Errorf("Expected trimmed question, got %q", faq.Question)
	}
	if faq.ID == "" {
		t.Error("Expected ID to be assigned")
	}
}

func TestFAQService_CreateValidation(t *testing.T) {
	f := newFixture()

	_, err := f.svc.FAQ.Create(context.Background(), &models.FAQRequest{Question: " ", Answer: "a"})

	var verrs validation.Errors
	if !errors.As(err, &verrs) {
		t.Errorf("Expected validation errors, got %v", err)
	}
}

func TestFAQService_UpdateAndDelete(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	faq, _ := f.svc.FAQ.Create(ctx, &models.FAQRequest{Category: "Buying", Question: "Q", Answer: "A"})

	updated, err := f.svc.FAQ.Update(ctx, faq.ID, &models.FAQRequest{Question: "Q2", Answer: "A2"})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if updated.Category != "" || updated.Question != "Q2" {
		t.Errorf("Expected full overwrite, got %+v", updated)
	}

	if _, err := f.svc.FAQ.Update(ctx, "missing", &models.FAQRequest{}); !errors.Is(err, service.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}

	if err := f.svc.FAQ.Delete(ctx, faq.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if err := f.svc.FAQ.Delete(ctx, faq.ID); err != nil {
		t.Errorf("Deleting a missing FAQ should not fail: %v", err)
	}
}

func TestFAQService_UpdateTrimsQuestion(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	faq, _ := f.svc.FAQ.Create(ctx, &models.FAQRequest{Question: "Q", Answer: "A"})

	req := &models.FAQRequest{Question: "  How long does closing take?  ", Answer: "About 30 days"}
	updated, err := f.svc.FAQ.Update(ctx, faq.ID, req)
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if updated.Question != "How long does closing take?" {
		t.Errorf("Expected trimmed question, got %q", updated.Question)
	}
	if req.Question != "  How long does closing take?  " {
		t.Errorf("Update should not modify the caller's request, got %q", req.Question)
	}
}

func sampleReviews() []*models.GoogleReview {
	return []*models.GoogleReview{
		{GoogleReviewID: "1700000000", AuthorName: "Ana", Rating: 5, Content: "Great", ReviewDate: "2023-11-14"},
		{GoogleReviewID: "1700100000", AuthorName: "Ben", Rating: 4, Content: "Good", ReviewDate: "2023-11-16"},
	}
}

func TestReviewService_SyncIsIdempotent(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.source.Reviews = sampleReviews()

	for i := 0; i < 2; i++ {
		n, err := f.svc.Review.Sync(ctx)
		if err != nil {
			t.Fatalf("Sync %d failed: %v", i, err)
		}
		if n != 2 {
			t.Errorf("Expected 2 synced, got %d", n)
		}
	}

	reviews, _ := f.svc.Review.List(ctx)
	if len(reviews) != 2 {
		t.Errorf("Expected 2 reviews after two syncs, got %d", len(reviews))
	}
}

func TestReviewService_SyncKeepsSelection(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.source.Reviews = sampleReviews()

	f.svc.Review.Sync(ctx)
	reviews, _ := f.svc.Review.List(ctx)
	if err := f.svc.Review.Select(ctx, []string{reviews[0].ID}); err != nil {
		t.Fatalf("Select failed: %v", err)
	}

	f.svc.Review.Sync(ctx)

	selected, _ := f.svc.Review.ListSelected(ctx)
	if len(selected) != 1 || selected[0].ID != reviews[0].ID {
		t.Errorf("Expected selection to survive a sync, got %+v", selected)
	}
}

func TestReviewService_SyncAbortsOnFirstFailure(t *testing.T) {
	f := newFixture()
	f.source.Reviews = sampleReviews()
	f.store.Reviews.UpsertError = errors.New("write failed")
	f.store.Reviews.FailAfter = 1

	n, err := f.svc.Review.Sync(context.Background())
	if err == nil {
		t.Fatal("Expected error")
	}
	if n != 1 {
		t.Errorf("Expected 1 review synced before the failure, got %d", n)
	}
	if f.store.Reviews.UpsertCalls != 2 {
		t.Errorf("Expected sync to stop after the failing write, got %d calls", f.store.Reviews.UpsertCalls)
	}
}

func TestReviewService_SyncFetchError(t *testing.T) {
	f := newFixture()
	f.source.FetchError = errors.New("quota exceeded")

	if _, err := f.svc.Review.Sync(context.Background()); err == nil {
		t.Error("Expected fetch error")
	}
}

func TestReviewService_SyncWithoutSource(t *testing.T) {
	repos, _ := mocks.NewRepositories()
	svc := service.NewServices(repos, mocks.NewMemoryBlobStore(), nil, &config.Config{}, zerolog.Nop())

	if _, err := svc.Review.Sync(context.Background()); !errors.Is(err, service.ErrSourceNotConfigured) {
		t.Errorf("Expected ErrSourceNotConfigured, got %v", err)
	}
}

func TestReviewService_SelectExactSet(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.source.Reviews = sampleReviews()
	f.svc.Review.Sync(ctx)
	reviews, _ := f.svc.Review.List(ctx)

	f.svc.Review.Select(ctx, []string{reviews[0].ID, reviews[1].ID})
	f.svc.Review.Select(ctx, []string{reviews[1].ID})

	selected, _ := f.svc.Review.ListSelected(ctx)
	if len(selected) != 1 || selected[0].ID != reviews[1].ID {
		t.Errorf("Expected only %s selected, got %+v", reviews[1].ID, selected)
	}

	f.svc.Review.Select(ctx, nil)
	selected, _ = f.svc.Review.ListSelected(ctx)
	if len(selected) != 0 {
		t.Errorf("Expected no selection, got %d", len(selected))
	}
}

func TestResourceService_Upload(t *testing.T) {
	f := newFixture()

	res, err := f.svc.Resource.Upload(context.Background(), "Buyer Guide", pdfUpload("buyer guide.pdf"))
	if err != nil {
		t.Fatalf("Upload failed: %v", err)
	}

	if !strings.HasPrefix(res.FileURL, "/uploads/resources/") {
		t.Errorf("Unexpected file URL %s", res.FileURL)
	}
	if !strings.HasSuffix(res.FileName, "-buyer_guide.pdf") {
		t.Errorf("Unexpected file name %s", res.FileName)
	}
	if res.MimeType != models.PDFMimeType || res.FileSize != int64(len(samplePDF)) || res.Downloads != 0 {
		t.Errorf("Unexpected metadata %+v", res)
	}
	if !f.blobs.Has(storage.ResourcePrefix + res.FileName) {
		t.Error("Expected file to be stored")
	}
}

func TestResourceService_UploadRejects(t *testing.T) {
	tests := []struct {
		name    string
		title   string
		file    *service.Upload
		wantErr error
	}{
		{
			name:    "missing file",
			title:   "Guide",
			wantErr: service.ErrFileRequired,
		},
		{
			name:    "declared type not pdf",
			title:   "Guide",
			file:    &service.Upload{Filename: "a.txt", ContentType: "text/plain", Size: 5, Reader: strings.NewReader("hello")},
			wantErr: validation.ErrNotPDF,
		},
		{
			name:    "content not pdf",
			title:   "Guide",
			file:    &service.Upload{Filename: "a.pdf", ContentType: models.PDFMimeType, Size: 5, Reader: strings.NewReader("hello")},
			wantErr: validation.ErrNotPDF,
		},
		{
			name:    "too large",
			title:   "Guide",
			file:    &service.Upload{Filename: "a.pdf", ContentType: models.PDFMimeType, Size: 4096, Reader: strings.NewReader(samplePDF)},
			wantErr: validation.ErrTooLarge,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()

			_, err := f.svc.Resource.Upload(context.Background(), tt.title, tt.file)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Expected %v, got %v", tt.wantErr, err)
			}
			if len(f.store.Resources.Resources) != 0 {
				t.Error("No document should be created")
			}
			if f.blobs.Len() != 0 {
				t.Error("No file should be stored")
			}
		})
	}
}

func TestResourceService_UploadMissingTitle(t *testing.T) {
	f := newFixture()

	_, err := f.svc.Resource.Upload(context.Background(), "  ", pdfUpload("a.pdf"))

	var verrs validation.Errors
	if !errors.As(err, &verrs) {
		t.Fatalf("Expected validation errors, got %v", err)
	}
	if f.blobs.Len() != 0 {
		t.Error("No file should be stored")
	}
}

func TestResourceService_FailedSaveRemovesFile(t *testing.T) {
	f := newFixture()
	f.store.Resources.CreateError = errors.New("write failed")

	if _, err := f.svc.Resource.Upload(context.Background(), "Guide", pdfUpload("a.pdf")); err == nil {
		t.Fatal("Expected error")
	}
	if f.blobs.Len() != 0 {
		t.Errorf("Expected uploaded file to be removed, %d left", f.blobs.Len())
	}
}

func TestResourceService_Delete(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	res, _ := f.svc.Resource.Upload(ctx, "Guide", pdfUpload("a.pdf"))
	key := storage.ResourcePrefix + res.FileName

	if err := f.svc.Resource.Delete(ctx, res.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if f.blobs.Has(key) {
		t.Error("Expected file to be removed")
	}
	if _, ok := f.store.Resources.Resources[res.ID]; ok {
		t.Error("Expected document to be removed")
	}

	if err := f.svc.Resource.Delete(ctx, res.ID); !errors.Is(err, service.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestResourceService_DeleteWithFileAlreadyGone(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	res, _ := f.svc.Resource.Upload(ctx, "Guide", pdfUpload("a.pdf"))
	f.blobs.Remove(ctx, storage.ResourcePrefix+res.FileName)

	if err := f.svc.Resource.Delete(ctx, res.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if len(f.store.Resources.Resources) != 0 {
		t.Error("Expected document to be removed")
	}
}

func TestUploadService_Sweep(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	res, _ := f.svc.Resource.Upload(ctx, "Guide", pdfUpload("kept.pdf"))
	kept := storage.ResourcePrefix + res.FileName

	img := "jpeg"
	page, _ := f.svc.Community.Upsert(ctx, &models.CommunityPageForm{Community: "A", Slug: "a"},
		&service.Upload{Filename: "hero.jpg", ContentType: "image/jpeg", Size: int64(len(img)), Reader: strings.NewReader(img)})

	f.blobs.Put(ctx, "resources/orphan.pdf", strings.NewReader(samplePDF), int64(len(samplePDF)), models.PDFMimeType)
	f.blobs.Put(ctx, "resources/fresh.pdf", strings.NewReader(samplePDF), int64(len(samplePDF)), models.PDFMimeType)

	for _, key := range []string{kept, page.HeroImage, "resources/orphan.pdf"} {
		f.blobs.Age(key, 2*time.Hour)
	}

	dry, err := f.svc.Upload.Sweep(ctx, true)
	if err != nil {
		t.Fatalf("dry run failed: %v", err)
	}
	if len(dry.Removed) != 1 || dry.Removed[0] != "resources/orphan.pdf" {
		t.Errorf("Expected only the orphan to be reported, got %v", dry.Removed)
	}
	if !f.blobs.Has("resources/orphan.pdf") {
		t.Error("Dry run must not remove anything")
	}

	result, err := f.svc.Upload.Sweep(ctx, false)
	if err != nil {
		t.Fatalf("sweep failed: %v", err)
	}
	if result.Scanned != 4 {
		t.Errorf("Expected 4 scanned, got %d", result.Scanned)
	}
	if f.blobs.Has("resources/orphan.pdf") {
		t.Error("Expected orphan to be removed")
	}
	for _, key := range []string{kept, page.HeroImage, "resources/fresh.pdf"} {
		if !f.blobs.Has(key) {
			t.Errorf("Expected %s to be kept", key)
		}
	}
}

func TestUploadService_OpenMissing(t *testing.T) {
	f := newFixture()

	if _, _, err := f.svc.Upload.Open(context.Background(), "nope.jpg"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Expected storage.ErrNotFound, got %v", err)
	}
}
