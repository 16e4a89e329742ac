package template

import (
	"bytes"
	"context"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/herald/pkg/blob"
	"github.com/dmitrymomot/herald/pkg/cache"
)

type mockStore struct {
	mock.Mock
}

func (m *mockStore) Create(ctx context.Context, t *Template) error {
	return m.Called(ctx, t).Error(0)
}

func (m *mockStore) Update(ctx context.Context, t *Template) error {
	return m.Called(ctx, t).Error(0)
}

func (m *mockStore) GetByID(ctx context.Context, id uuid.UUID) (*Template, error) {
	args := m.Called(ctx, id)
	if t, ok := args.Get(0).(*Template); ok {
		return t, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockStore) List(ctx context.Context, f Filter) ([]Template, error) {
	args := m.Called(ctx, f)
	if ts, ok := args.Get(0).([]Template); ok {
		return ts, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockStore) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func TestServiceCreate(t *testing.T) {
	t.Parallel()

	t.Run("derives slug and placeholders", func(t *testing.T) {
		t.Parallel()

		store := &mockStore{}
		var created *Template
		store.On("Create", mock.Anything, mock.Anything).
			Run(func(args mock.Arguments) {
				created = args.Get(1).(*Template)
			}).
			Return(nil)

		svc := NewService(store)
		tmpl, err := svc.Create(context.Background(), CreateParams{
			Name:     "Welcome Aboard",
			Subject:  "Hi {{first_name}}",
			Content:  "<p>{$company} welcomes you</p>",
			Category: "onboarding",
			Active:   true,
		})
		require.NoError(t, err)
		require.Equal(t, "welcome-aboard", tmpl.Slug)
		require.Equal(t, []string{"{{first_name}}", "{$company}"}, tmpl.Placeholders)
		require.Equal(t, FormatHTML, tmpl.Format)
		require.Same(t, created, tmpl)
		store.AssertExpectations(t)
	})

	t.Run("missing fields", func(t *testing.T) {
		t.Parallel()

		svc := NewService(&mockStore{})
		_, err := svc.Create(context.Background(), CreateParams{
			Name:    "No Category",
			Subject: "s",
			Content: "c",
		})
		require.ErrorIs(t, err, ErrMissingField)
	})

	t.Run("invalid format", func(t *testing.T) {
		t.Parallel()

		svc := NewService(&mockStore{})
		_, err := svc.Create(context.Background(), CreateParams{
			Name:     "n",
			Subject:  "s",
			Content:  "c",
			Category: "cat",
			Format:   "docx",
		})
		require.ErrorIs(t, err, ErrInvalidFormat)
	})

	t.Run("sanitizes html content", func(t *testing.T) {
		t.Parallel()

		store := &mockStore{}
		store.On("Create", mock.Anything, mock.Anything).Return(nil)

		svc := NewService(store)
		tmpl, err := svc.Create(context.Background(), CreateParams{
			Name:     "Promo",
			Subject:  "Deal",
			Content:  `<p>Hello</p><script>alert(1)</script>`,
			Category: "marketing",
		})
		require.NoError(t, err)
		require.NotContains(t, tmpl.Content, "<script>")
		require.Contains(t, tmpl.Content, "<p>Hello</p>")
	})

	t.Run("duplicate slug surfaces", func(t *testing.T) {
		t.Parallel()

		store := &mockStore{}
		store.On("Create", mock.Anything, mock.Anything).Return(ErrDuplicateSlug)

		svc := NewService(store)
		_, err := svc.Create(context.Background(), CreateParams{
			Name:     "Welcome",
			Subject:  "s",
			Content:  "c",
			Category: "cat",
		})
		require.ErrorIs(t, err, ErrDuplicateSlug)
	})
}

func TestServiceUpdate(t *testing.T) {
	t.Parallel()

	existing := func() *Template {
		return &Template{
			ID:           uuid.New(),
			Name:         "Welcome",
			Slug:         "welcome",
			Subject:      "Hi {{first_name}}",
			Content:      "{$company} welcomes you",
			Category:     "onboarding",
			Format:       FormatMarkdown,
			Placeholders: []string{"{{first_name}}", "{$company}"},
		}
	}

	t.Run("recomputes placeholders against merged fields", func(t *testing.T) {
		t.Parallel()

		tmpl := existing()
		store := &mockStore{}
		store.On("GetByID", mock.Anything, tmpl.ID).Return(tmpl, nil)
		store.On("Update", mock.Anything, tmpl).Return(nil)

		newSubject := "Hello {$city}"
		svc := NewService(store)
		updated, err := svc.Update(context.Background(), tmpl.ID, UpdateParams{
			Subject: &newSubject,
		})
		require.NoError(t, err)

		// Subject changed, content kept: tokens from both.
		require.Equal(t, []string{"{$city}", "{$company}"}, updated.Placeholders)
	})

	t.Run("non-text change keeps placeholders", func(t *testing.T) {
		t.Parallel()

		tmpl := existing()
		store := &mockStore{}
		store.On("GetByID", mock.Anything, tmpl.ID).Return(tmpl, nil)
		store.On("Update", mock.Anything, tmpl).Return(nil)

		active := false
		svc := NewService(store)
		updated, err := svc.Update(context.Background(), tmpl.ID, UpdateParams{Active: &active})
		require.NoError(t, err)
		require.Equal(t, []string{"{{first_name}}", "{$company}"}, updated.Placeholders)
		require.False(t, updated.Active)
	})

	t.Run("not found", func(t *testing.T) {
		t.Parallel()

		id := uuid.New()
		store := &mockStore{}
		store.On("GetByID", mock.Anything, id).Return(nil, ErrNotFound)

		svc := NewService(store)
		_, err := svc.Update(context.Background(), id, UpdateParams{})
		require.ErrorIs(t, err, ErrNotFound)
	})
}

func TestServiceGetByID(t *testing.T) {
	t.Parallel()

	t.Run("cache hit skips store", func(t *testing.T) {
		t.Parallel()

		tmpl := &Template{ID: uuid.New(), Name: "Cached"}
		store := &mockStore{}
		store.On("GetByID", mock.Anything, tmpl.ID).Return(tmpl, nil).Once()

		c := cache.NewMemory[Template]()
		defer c.Close()

		svc := NewService(store, WithCache(c, time.Minute))

		first, err := svc.GetByID(context.Background(), tmpl.ID)
		require.NoError(t, err)
		second, err := svc.GetByID(context.Background(), tmpl.ID)
		require.NoError(t, err)
		require.Equal(t, first.Name, second.Name)
		store.AssertNumberOfCalls(t, "GetByID", 1)
	})

	t.Run("update invalidates cache", func(t *testing.T) {
		t.Parallel()

		tmpl := &Template{ID: uuid.New(), Name: "Stale", Format: FormatMarkdown}
		store := &mockStore{}
		store.On("GetByID", mock.Anything, tmpl.ID).Return(tmpl, nil)
		store.On("Update", mock.Anything, tmpl).Return(nil)

		c := cache.NewMemory[Template]()
		defer c.Close()

		svc := NewService(store, WithCache(c, time.Minute))

		_, err := svc.GetByID(context.Background(), tmpl.ID)
		require.NoError(t, err)

		name := "Fresh"
		_, err = svc.Update(context.Background(), tmpl.ID, UpdateParams{Name: &name})
		require.NoError(t, err)

		_, err = c.Get(context.Background(), tmpl.ID.String())
		require.ErrorIs(t, err, cache.ErrNotFound)
	})
}

// fakeBlobs is an in-memory blob.Storage.
type fakeBlobs struct {
	objects map[string][]byte
}

func newFakeBlobs() *fakeBlobs {
	return &fakeBlobs{objects: make(map[string][]byte)}
}

func (f *fakeBlobs) Put(_ context.Context, key, _ string, r io.Reader, _ int64) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	f.objects[key] = data
	return nil
}

func (f *fakeBlobs) Get(_ context.Context, key string) (io.ReadCloser, error) {
	data, ok := f.objects[key]
	if !ok {
		return nil, blob.ErrNotFound
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (f *fakeBlobs) Delete(_ context.Context, key string) error {
	delete(f.objects, key)
	return nil
}

func (f *fakeBlobs) SignedURL(_ context.Context, key string, _ time.Duration) (string, error) {
	if _, ok := f.objects[key]; !ok {
		return "", blob.ErrNotFound
	}
	return "https://blobs.test/" + key, nil
}

func TestServiceAttachments(t *testing.T) {
	t.Parallel()

	t.Run("upload records attachment and links resolve", func(t *testing.T) {
		t.Parallel()

		tmpl := &Template{ID: uuid.New(), Name: "Welcome", Format: FormatMarkdown}
		store := &mockStore{}
		store.On("GetByID", mock.Anything, tmpl.ID).Return(tmpl, nil)
		store.On("Update", mock.Anything, tmpl).Return(nil)

		blobs := newFakeBlobs()
		svc := NewService(store, WithBlobStorage(blobs))

		content := []byte("%PDF-1.4 fake")
		updated, err := svc.AddAttachment(
			context.Background(), tmpl.ID,
			"guide.pdf", "application/pdf",
			bytes.NewReader(content), int64(len(content)),
		)
		require.NoError(t, err)
		require.Len(t, updated.Attachments, 1)
		require.Equal(t, "guide.pdf", updated.Attachments[0].Filename)
		require.Contains(t, blobs.objects, updated.Attachments[0].Key)

		links, err := svc.AttachmentLinks(context.Background(), tmpl.ID, time.Minute)
		require.NoError(t, err)
		require.Len(t, links, 1)
		require.Equal(t, "guide.pdf", links[0].Filename)
		require.Equal(t, "https://blobs.test/"+updated.Attachments[0].Key, links[0].URL)
	})

	t.Run("no blob storage configured", func(t *testing.T) {
		t.Parallel()

		svc := NewService(&mockStore{})
		_, err := svc.AddAttachment(
			context.Background(), uuid.New(),
			"guide.pdf", "application/pdf",
			bytes.NewReader(nil), 0,
		)
		require.ErrorIs(t, err, ErrNoBlobStorage)

		_, err = svc.AttachmentLinks(context.Background(), uuid.New(), time.Minute)
		require.ErrorIs(t, err, ErrNoBlobStorage)
	})
}

func TestComputePlaceholders(t *testing.T) {
	t.Parallel()

	got := computePlaceholders("Hi {{first_name}}", "{$company} welcomes you, {{first_name}}")
	require.Equal(t, []string{"{{first_name}}", "{$company}"}, got)
}
