package journals

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pharmeo/pharmeo/internal/ledger"
)

// memRepository is an in-memory RepositoryPort. "Transactions" are not
// rolled back; tests only exercise the happy and validation paths where the
// distinction does not matter.
type memRepository struct {
	lastNumber int64
	nextID     int64
	entries    map[int64]ledger.JournalEntry
	lines      map[int64][]ledger.JournalLine
	links      map[string]int64
	postable   map[string]bool
}

func newMemRepository(postable ...string) *memRepository {
	codes := make(map[string]bool, len(postable))
	for _, code := range postable {
		codes[code] = true
	}
	return &memRepository{
		entries:  make(map[int64]ledger.JournalEntry),
		lines:    make(map[int64][]ledger.JournalLine),
		links:    make(map[string]int64),
		postable: codes,
	}
}

func (m *memRepository) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	return fn(ctx, m)
}

func (m *memRepository) NextEntryNumber(context.Context, uuid.UUID) (string, error) {
	m.lastNumber++
	return fmt.Sprintf("JE-%08d", m.lastNumber), nil
}

func (m *memRepository) InsertEntry(_ context.Context, in CreateInput, number string) (ledger.JournalEntry, error) {
	m.nextID++
	entry := ledger.JournalEntry{
		ID:           m.nextID,
		TenantID:     in.TenantID,
		EntryNumber:  number,
		EntryDate:    in.EntryDate,
		Description:  in.Description,
		SourceModule: in.SourceModule,
		SourceID:     in.SourceID,
		Status:       ledger.EntryStatusDraft,
	}
	m.entries[entry.ID] = entry
	return entry, nil
}

func (m *memRepository) InsertLines(_ context.Context, entryID int64, lines []LineInput) error {
	for i, in := range lines {
		m.lines[entryID] = append(m.lines[entryID], ledger.JournalLine{
			ID:          int64(i + 1),
			EntryID:     entryID,
			AccountCode: in.AccountCode,
			Debit:       in.Debit,
			Credit:      in.Credit,
			Description: in.Description,
		})
	}
	return nil
}

func (m *memRepository) LinkSource(_ context.Context, module string, ref uuid.UUID, entryID int64) error {
	key := module + ":" + ref.String()
	if _, dup := m.links[key]; dup {
		return ledger.ErrSourceAlreadyLinked
	}
	m.links[key] = entryID
	return nil
}

func (m *memRepository) GetEntryForUpdate(_ context.Context, tenantID uuid.UUID, entryID int64) (ledger.JournalEntry, error) {
	entry, ok := m.entries[entryID]
	if !ok || entry.TenantID != tenantID {
		return ledger.JournalEntry{}, ledger.ErrEntryNotFound
	}
	return entry, nil
}

func (m *memRepository) GetLines(_ context.Context, entryID int64) ([]ledger.JournalLine, error) {
	return m.lines[entryID], nil
}

func (m *memRepository) PostableCodes(context.Context, uuid.UUID) (map[string]bool, error) {
	return m.postable, nil
}

func (m *memRepository) GetEntry(_ context.Context, tenantID uuid.UUID, entryID int64) (ledger.JournalEntry, error) {
	entry, ok := m.entries[entryID]
	if !ok || entry.TenantID != tenantID {
		return ledger.JournalEntry{}, ledger.ErrEntryNotFound
	}
	entry.Lines = m.lines[entryID]
	return entry, nil
}

func (m *memRepository) ListEntries(_ context.Context, tenantID uuid.UUID, f ListFilter) ([]ledger.JournalEntry, error) {
	var out []ledger.JournalEntry
	for _, entry := range m.entries {
		if entry.TenantID != tenantID {
			continue
		}
		if f.Status != "" && entry.Status != f.Status {
			continue
		}
		out = append(out, entry)
	}
	return out, nil
}

func (m *memRepository) MarkPosted(_ context.Context, entryID int64, at time.Time) error {
	entry, ok := m.entries[entryID]
	if !ok || entry.Status != ledger.EntryStatusDraft {
		return ledger.ErrInvalidStatus
	}
	entry.Status = ledger.EntryStatusPosted
	entry.PostedAt = &at
	m.entries[entryID] = entry
	return nil
}

type countingInvalidator struct {
	bumps int
}

func (c *countingInvalidator) Bump(context.Context) error {
	c.bumps++
	return nil
}

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func validInput(tenantID uuid.UUID) CreateInput {
	return CreateInput{
		TenantID:    tenantID,
		EntryDate:   time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC),
		Description: "vente au comptoir",
		Lines: []LineInput{
			{AccountCode: "411", Debit: dec("10000")},
			{AccountCode: "7001", Credit: dec("10000")},
		},
	}
}

func TestCreateEntryAssignsSequentialNumbers(t *testing.T) {
	repo := newMemRepository("411", "7001")
	svc := NewService(repo, nil)
	tenantID := uuid.New()
	ctx := context.Background()

	first, err := svc.CreateEntry(ctx, validInput(tenantID))
	require.NoError(t, err)
	second, err := svc.CreateEntry(ctx, validInput(tenantID))
	require.NoError(t, err)

	assert.Equal(t, "JE-00000001", first.EntryNumber)
	assert.Equal(t, "JE-00000002", second.EntryNumber)
	assert.Equal(t, ledger.EntryStatusDraft, first.Status)
	assert.Len(t, repo.lines[first.ID], 2)
}

func TestCreateEntryValidation(t *testing.T) {
	repo := newMemRepository("411", "7001")
	svc := NewService(repo, nil)
	tenantID := uuid.New()
	ctx := context.Background()

	in := validInput(tenantID)
	in.Lines = in.Lines[:1]
	_, err := svc.CreateEntry(ctx, in)
	assert.ErrorIs(t, err, ledger.ErrTooFewLines)

	in = validInput(tenantID)
	in.Lines[1].Credit = dec("9999")
	_, err = svc.CreateEntry(ctx, in)
	assert.ErrorIs(t, err, ledger.ErrUnbalanced)

	in = validInput(tenantID)
	in.Lines[0].Credit = dec("10000")
	_, err = svc.CreateEntry(ctx, in)
	assert.Error(t, err, "a line cannot carry both sides")

	in = validInput(tenantID)
	in.Lines[0].Debit = dec("-5")
	in.Lines[0].Credit = dec("0")
	_, err = svc.CreateEntry(ctx, in)
	assert.Error(t, err)

	assert.Empty(t, repo.entries, "invalid input never reaches the store")
}

func TestCreateEntryLinksSourceOnce(t *testing.T) {
	repo := newMemRepository("411", "7001")
	svc := NewService(repo, nil)
	tenantID := uuid.New()
	ctx := context.Background()

	in := validInput(tenantID)
	in.SourceModule = "sales"
	in.SourceID = uuid.New()

	_, err := svc.CreateEntry(ctx, in)
	require.NoError(t, err)

	_, err = svc.CreateEntry(ctx, in)
	assert.ErrorIs(t, err, ledger.ErrSourceAlreadyLinked)
}

func TestPostEntryLifecycle(t *testing.T) {
	repo := newMemRepository("411", "7001")
	invalidator := &countingInvalidator{}
	svc := NewService(repo, invalidator)
	postedAt := time.Date(2025, 1, 16, 9, 30, 0, 0, time.UTC)
	svc.WithNow(func() time.Time { return postedAt })
	tenantID := uuid.New()
	ctx := context.Background()

	entry, err := svc.CreateEntry(ctx, validInput(tenantID))
	require.NoError(t, err)

	posted, err := svc.PostEntry(ctx, tenantID, entry.ID)
	require.NoError(t, err)
	assert.Equal(t, ledger.EntryStatusPosted, posted.Status)
	require.NotNil(t, posted.PostedAt)
	assert.True(t, posted.PostedAt.Equal(postedAt))
	assert.Len(t, posted.Lines, 2)
	assert.Equal(t, 1, invalidator.bumps, "posting invalidates cached reports")

	_, err = svc.PostEntry(ctx, tenantID, entry.ID)
	assert.ErrorIs(t, err, ledger.ErrInvalidStatus, "posting is one-way")
	assert.Equal(t, 1, invalidator.bumps, "a failed post does not bump")
}

func TestGetEntryReturnsLines(t *testing.T) {
	repo := newMemRepository("411", "7001")
	svc := NewService(repo, nil)
	tenantID := uuid.New()
	ctx := context.Background()

	created, err := svc.CreateEntry(ctx, validInput(tenantID))
	require.NoError(t, err)

	got, err := svc.GetEntry(ctx, tenantID, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.EntryNumber, got.EntryNumber)
	require.Len(t, got.Lines, 2)
	assert.True(t, got.Lines[0].Debit.Equal(dec("10000")))

	_, err = svc.GetEntry(ctx, tenantID, 0)
	assert.ErrorIs(t, err, ledger.ErrEntryNotFound)
}

func TestListEntriesFiltersByStatus(t *testing.T) {
	repo := newMemRepository("411", "7001")
	svc := NewService(repo, nil)
	tenantID := uuid.New()
	ctx := context.Background()

	first, err := svc.CreateEntry(ctx, validInput(tenantID))
	require.NoError(t, err)
	_, err = svc.CreateEntry(ctx, validInput(tenantID))
	require.NoError(t, err)
	_, err = svc.PostEntry(ctx, tenantID, first.ID)
	require.NoError(t, err)

	all, err := svc.ListEntries(ctx, tenantID, ListFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	posted, err := svc.ListEntries(ctx, tenantID, ListFilter{Status: ledger.EntryStatusPosted})
	require.NoError(t, err)
	require.Len(t, posted, 1)
	assert.Equal(t, first.ID, posted[0].ID)
}

func TestPostEntryUnknownEntry(t *testing.T) {
	repo := newMemRepository("411", "7001")
	svc := NewService(repo, nil)

	_, err := svc.PostEntry(context.Background(), uuid.New(), 42)
	assert.ErrorIs(t, err, ledger.ErrEntryNotFound)
}

func TestPostEntryWrongTenant(t *testing.T) {
	repo := newMemRepository("411", "7001")
	svc := NewService(repo, nil)
	ctx := context.Background()

	entry, err := svc.CreateEntry(ctx, validInput(uuid.New()))
	require.NoError(t, err)

	_, err = svc.PostEntry(ctx, uuid.New(), entry.ID)
	assert.ErrorIs(t, err, ledger.ErrEntryNotFound)
}

func TestPostEntryRejectsNonPostableAccount(t *testing.T) {
	repo := newMemRepository("411")
	svc := NewService(repo, nil)
	tenantID := uuid.New()
	ctx := context.Background()

	entry, err := svc.CreateEntry(ctx, validInput(tenantID))
	require.NoError(t, err)

	_, err = svc.PostEntry(ctx, tenantID, entry.ID)
	assert.ErrorIs(t, err, ledger.ErrAccountNotPostable)

	stored, err := repo.GetEntryForUpdate(ctx, tenantID, entry.ID)
	require.NoError(t, err)
	assert.Equal(t, ledger.EntryStatusDraft, stored.Status, "the entry stays a draft")
}
