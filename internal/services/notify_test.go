package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventsearch/internal/domain"
	"eventsearch/internal/geo"
	"eventsearch/internal/repository/memory"
)

type fakeFilterRepo struct {
	filters []*domain.Filter
	err     error
}

func (f *fakeFilterRepo) ListWithEmail(context.Context) ([]*domain.Filter, error) {
	return f.filters, f.err
}

// fakeEmailService records notices instead of sending them.
type fakeEmailService struct {
	sent   []*domain.EventNoticeEmailData
	failTo string
}

func (f *fakeEmailService) SendEventNotice(_ context.Context, data *domain.EventNoticeEmailData) error {
	if data.Email == f.failTo {
		return errors.New("mailbox unavailable")
	}
	f.sent = append(f.sent, data)
	return nil
}

func newNotifier(t *testing.T, filters *fakeFilterRepo, email *fakeEmailService) domain.NotificationService {
	t.Helper()
	continents, err := geo.DefaultContinents()
	require.NoError(t, err)
	store := memory.NewEventStore(continents, searchFixtures()...)
	search := NewSearchService(store, store, nil, SearchConfig{}, nil, WithClock(func() time.Time { return searchToday }))
	return NewNotificationService(store, filters, search, email, SiteInfo{Name: "GriCal", Domain: "grical.org"}, time.Second, nil)
}

func TestNotifyEventMatches(t *testing.T) {
	filters := &fakeFilterRepo{filters: []*domain.Filter{
		{ID: 1, Name: "music in berlin", UserEmail: "ann@example.com", Query: "#music berlin", Email: true},
		{ID: 2, Name: "paris", UserEmail: "bob@example.com", Query: "paris", Email: true},
		{ID: 3, Name: "broken", UserEmail: "eve@example.com", Query: "@@zz", Email: true},
		{ID: 4, Name: "needs geo", UserEmail: "eve@example.com", Query: "@Berlin+5km", Email: true},
		{ID: 5, Name: "all music", UserEmail: "joe@example.com", Query: "#music | jazz", Email: true},
	}}
	email := &fakeEmailService{}
	n, err := newNotifier(t, filters, email).NotifyEventMatches(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	require.Len(t, email.sent, 2)
	assert.Equal(t, "ann@example.com", email.sent[0].Email)
	assert.Equal(t, "music in berlin", email.sent[0].FilterName)
	assert.Equal(t, "Summer Jam", email.sent[0].Event.Title)
	assert.Equal(t, "grical.org", email.sent[0].SiteDomain)
	assert.Equal(t, "joe@example.com", email.sent[1].Email)
}

func TestNotifyEventMatchesErrors(t *testing.T) {
	t.Run("unknown event", func(t *testing.T) {
		_, err := newNotifier(t, &fakeFilterRepo{}, &fakeEmailService{}).NotifyEventMatches(context.Background(), 999)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
	t.Run("filter repository", func(t *testing.T) {
		boom := errors.New("db down")
		_, err := newNotifier(t, &fakeFilterRepo{err: boom}, &fakeEmailService{}).NotifyEventMatches(context.Background(), 1)
		assert.ErrorIs(t, err, boom)
	})
	t.Run("send failure is skipped", func(t *testing.T) {
		filters := &fakeFilterRepo{filters: []*domain.Filter{
			{ID: 1, UserEmail: "ann@example.com", Query: "#music", Email: true},
			{ID: 2, UserEmail: "bob@example.com", Query: "#music", Email: true},
		}}
		email := &fakeEmailService{failTo: "ann@example.com"}
		n, err := newNotifier(t, filters, email).NotifyEventMatches(context.Background(), 1)
		require.NoError(t, err)
		assert.Equal(t, 1, n)
	})
}
