/*
Package sqlite provides the SQLite-backed implementation of
household.Store.

PURPOSE:
  Persists families, members, invitations, events, chores and chore
  completions. Entities are plain upsert CRUD; completions are
  append-only with a uniqueness constraint standing in for the
  "one completion per chore+member+day" rule.

KEY TABLES:
  families:     Household records (plan, timezone)
  members:      Family membership with roles
  invitations:  Pending/resolved invites, token-addressable
  events:       Calendar entries with flat recurrence fields
  chores:       Chore definitions with flat recurrence fields
  completions:  Append-only log the leaderboard sums over

RECURRENCE FIELDS:
  Rules are stored flat on their owning rows (start_at, end_at,
  recurring, recurrence_type, recurrence_interval, days_of_week,
  recurrence_end_at). Expansion output is NEVER stored - instances are
  recomputed per query by the recurrence engine.

OVERLAP QUERIES:
  ListEventsOverlapping/ListChoresOverlapping return a superset of the
  items that can produce an occurrence in a window; the engine does the
  exact per-day matching in memory.

WAL MODE:
  Opened with WAL for better read concurrency; a sync.RWMutex guards the
  connection the same way the rest of the app expects.

USAGE:
  st, err := sqlite.New("./data/hearth.db")   // ":memory:" for tests
  defer st.Close()
*/
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/hearth/household-engine/calendar"
	"github.com/hearth/household-engine/chores"
	"github.com/hearth/household-engine/household"
)

// Store implements household.Store using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

var _ household.Store = (*Store)(nil)

// New creates a SQLite store at dbPath. Use ":memory:" for tests.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS families (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		owner_id TEXT NOT NULL,
		plan TEXT NOT NULL DEFAULT 'free',
		timezone TEXT,
		created_at INTEGER NOT NULL,
		updated_at INTEGER
	);

	CREATE TABLE IF NOT EXISTS members (
		id TEXT PRIMARY KEY,
		family_id TEXT NOT NULL,
		display_name TEXT NOT NULL,
		role TEXT NOT NULL,
		color TEXT,
		avatar_url TEXT,
		joined_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_members_family ON members(family_id);

	CREATE TABLE IF NOT EXISTS invitations (
		id TEXT PRIMARY KEY,
		family_id TEXT NOT NULL,
		email TEXT NOT NULL,
		role TEXT NOT NULL,
		token TEXT NOT NULL UNIQUE,
		status TEXT NOT NULL,
		created_at INTEGER NOT NULL,
		expires_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_invitations_family ON invitations(family_id);
	CREATE INDEX IF NOT EXISTS idx_invitations_status ON invitations(status);

	CREATE TABLE IF NOT EXISTS events (
		id TEXT PRIMARY KEY,
		family_id TEXT NOT NULL,
		title TEXT NOT NULL,
		location TEXT,
		notes TEXT,
		color TEXT,
		created_by TEXT,
		attendee_ids TEXT,
		start_at INTEGER NOT NULL,
		end_at INTEGER NOT NULL,
		recurring INTEGER NOT NULL DEFAULT 0,
		recurrence_type TEXT,
		recurrence_interval INTEGER,
		days_of_week TEXT,
		recurrence_end_at INTEGER,
		created_at INTEGER,
		updated_at INTEGER
	);
	CREATE INDEX IF NOT EXISTS idx_events_family_start ON events(family_id, start_at);

	CREATE TABLE IF NOT EXISTS chores (
		id TEXT PRIMARY KEY,
		family_id TEXT NOT NULL,
		title TEXT NOT NULL,
		notes TEXT,
		icon TEXT,
		points TEXT NOT NULL DEFAULT '0',
		assignee_ids TEXT,
		start_at INTEGER NOT NULL,
		end_at INTEGER NOT NULL,
		recurring INTEGER NOT NULL DEFAULT 0,
		recurrence_type TEXT,
		recurrence_interval INTEGER,
		days_of_week TEXT,
		recurrence_end_at INTEGER,
		created_at INTEGER,
		updated_at INTEGER
	);
	CREATE INDEX IF NOT EXISTS idx_chores_family ON chores(family_id);

	CREATE TABLE IF NOT EXISTS completions (
		id TEXT PRIMARY KEY,
		family_id TEXT NOT NULL,
		chore_id TEXT NOT NULL,
		member_id TEXT NOT NULL,
		day INTEGER NOT NULL,
		points TEXT NOT NULL,
		completed_at INTEGER NOT NULL
	);
	CREATE UNIQUE INDEX IF NOT EXISTS idx_unique_completion
		ON completions(chore_id, member_id, day);
	CREATE INDEX IF NOT EXISTS idx_completions_family ON completions(family_id);
	`
	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// JSON COLUMN HELPERS
// =============================================================================

func marshalStrings(v []string) string {
	if len(v) == 0 {
		return "[]"
	}
	b, _ := json.Marshal(v)
	return string(b)
}

func unmarshalStrings(s sql.NullString) []string {
	if !s.Valid || s.String == "" || s.String == "[]" {
		return nil
	}
	var out []string
	_ = json.Unmarshal([]byte(s.String), &out)
	return out
}

func marshalInts(v []int) string {
	if len(v) == 0 {
		return "[]"
	}
	b, _ := json.Marshal(v)
	return string(b)
}

func unmarshalInts(s sql.NullString) []int {
	if !s.Valid || s.String == "" || s.String == "[]" {
		return nil
	}
	var out []int
	_ = json.Unmarshal([]byte(s.String), &out)
	return out
}

func nullInt64(p *int64) sql.NullInt64 {
	if p == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *p, Valid: true}
}

func int64Ptr(n sql.NullInt64) *int64 {
	if !n.Valid {
		return nil
	}
	v := n.Int64
	return &v
}

// =============================================================================
// FAMILIES
// =============================================================================

func (s *Store) SaveFamily(ctx context.Context, f household.Family) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO families (id, name, owner_id, plan, timezone, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			owner_id = excluded.owner_id,
			plan = excluded.plan,
			timezone = excluded.timezone,
			updated_at = excluded.updated_at`,
		f.ID, f.Name, f.OwnerID, string(f.Plan), f.Timezone, f.CreatedAt, f.UpdatedAt)
	return err
}

func (s *Store) GetFamily(ctx context.Context, id string) (household.Family, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var f household.Family
	var plan string
	var tz sql.NullString
	var updated sql.NullInt64
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, owner_id, plan, timezone, created_at, updated_at
		FROM families WHERE id = ?`, id).
		Scan(&f.ID, &f.Name, &f.OwnerID, &plan, &tz, &f.CreatedAt, &updated)
	if err == sql.ErrNoRows {
		return household.Family{}, household.ErrFamilyNotFound
	}
	if err != nil {
		return household.Family{}, err
	}
	f.Plan = household.PlanName(plan)
	f.Timezone = tz.String
	if updated.Valid {
		f.UpdatedAt = updated.Int64
	}
	return f, nil
}

func (s *Store) ListFamilies(ctx context.Context) ([]household.Family, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, owner_id, plan, timezone, created_at, updated_at
		FROM families ORDER BY created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []household.Family
	for rows.Next() {
		var f household.Family
		var plan string
		var tz sql.NullString
		var updated sql.NullInt64
		if err := rows.Scan(&f.ID, &f.Name, &f.OwnerID, &plan, &tz, &f.CreatedAt, &updated); err != nil {
			return nil, err
		}
		f.Plan = household.PlanName(plan)
		f.Timezone = tz.String
		if updated.Valid {
			f.UpdatedAt = updated.Int64
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

// =============================================================================
// MEMBERS
// =============================================================================

func (s *Store) SaveMember(ctx context.Context, m household.Member) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO members (id, family_id, display_name, role, color, avatar_url, joined_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			display_name = excluded.display_name,
			role = excluded.role,
			color = excluded.color,
			avatar_url = excluded.avatar_url`,
		m.ID, m.FamilyID, m.DisplayName, string(m.Role), m.Color, m.AvatarURL, m.JoinedAt)
	return err
}

func (s *Store) GetMember(ctx context.Context, id string) (household.Member, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var m household.Member
	var role string
	var color, avatar sql.NullString
	err := s.db.QueryRowContext(ctx, `
		SELECT id, family_id, display_name, role, color, avatar_url, joined_at
		FROM members WHERE id = ?`, id).
		Scan(&m.ID, &m.FamilyID, &m.DisplayName, &role, &color, &avatar, &m.JoinedAt)
	if err == sql.ErrNoRows {
		return household.Member{}, household.ErrMemberNotFound
	}
	if err != nil {
		return household.Member{}, err
	}
	m.Role = household.Role(role)
	m.Color = color.String
	m.AvatarURL = avatar.String
	return m, nil
}

func (s *Store) ListMembers(ctx context.Context, familyID string) ([]household.Member, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, family_id, display_name, role, color, avatar_url, joined_at
		FROM members WHERE family_id = ? ORDER BY joined_at`, familyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []household.Member
	for rows.Next() {
		var m household.Member
		var role string
		var color, avatar sql.NullString
		if err := rows.Scan(&m.ID, &m.FamilyID, &m.DisplayName, &role, &color, &avatar, &m.JoinedAt); err != nil {
			return nil, err
		}
		m.Role = household.Role(role)
		m.Color = color.String
		m.AvatarURL = avatar.String
		out = append(out, m)
	}
	return out, rows.Err()
}

func (s *Store) DeleteMember(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `DELETE FROM members WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return household.ErrMemberNotFound
	}
	return nil
}

// =============================================================================
// INVITATIONS
// =============================================================================

func (s *Store) SaveInvitation(ctx context.Context, inv household.Invitation) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO invitations (id, family_id, email, role, token, status, created_at, expires_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			status = excluded.status`,
		inv.ID, inv.FamilyID, inv.Email, string(inv.Role), inv.Token,
		string(inv.Status), inv.CreatedAt, inv.ExpiresAt)
	return err
}

func (s *Store) GetInvitationByToken(ctx context.Context, token string) (household.Invitation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	inv, err := s.scanInvitation(s.db.QueryRowContext(ctx, `
		SELECT id, family_id, email, role, token, status, created_at, expires_at
		FROM invitations WHERE token = ?`, token))
	if err == sql.ErrNoRows {
		return household.Invitation{}, household.ErrInvitationNotFound
	}
	return inv, err
}

func (s *Store) ListInvitations(ctx context.Context, familyID string) ([]household.Invitation, error) {
	return s.queryInvitations(ctx, `
		SELECT id, family_id, email, role, token, status, created_at, expires_at
		FROM invitations WHERE family_id = ? ORDER BY created_at`, familyID)
}

func (s *Store) ListPendingInvitations(ctx context.Context) ([]household.Invitation, error) {
	return s.queryInvitations(ctx, `
		SELECT id, family_id, email, role, token, status, created_at, expires_at
		FROM invitations WHERE status = ? ORDER BY created_at`,
		string(household.InvitationPending))
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (s *Store) scanInvitation(row rowScanner) (household.Invitation, error) {
	var inv household.Invitation
	var role, status string
	err := row.Scan(&inv.ID, &inv.FamilyID, &inv.Email, &role, &inv.Token,
		&status, &inv.CreatedAt, &inv.ExpiresAt)
	if err != nil {
		return household.Invitation{}, err
	}
	inv.Role = household.Role(role)
	inv.Status = household.InvitationStatus(status)
	return inv, nil
}

func (s *Store) queryInvitations(ctx context.Context, query string, args ...any) ([]household.Invitation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []household.Invitation
	for rows.Next() {
		inv, err := s.scanInvitation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, inv)
	}
	return out, rows.Err()
}

// =============================================================================
// EVENTS
// =============================================================================

func (s *Store) SaveEvent(ctx context.Context, ev calendar.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO events (id, family_id, title, location, notes, color, created_by,
			attendee_ids, start_at, end_at, recurring, recurrence_type,
			recurrence_interval, days_of_week, recurrence_end_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			location = excluded.location,
			notes = excluded.notes,
			color = excluded.color,
			attendee_ids = excluded.attendee_ids,
			start_at = excluded.start_at,
			end_at = excluded.end_at,
			recurring = excluded.recurring,
			recurrence_type = excluded.recurrence_type,
			recurrence_interval = excluded.recurrence_interval,
			days_of_week = excluded.days_of_week,
			recurrence_end_at = excluded.recurrence_end_at,
			updated_at = excluded.updated_at`,
		ev.ID, ev.FamilyID, ev.Title, ev.Location, ev.Notes, ev.Color, ev.CreatedBy,
		marshalStrings(ev.AttendeeIDs), ev.StartAt, ev.EndAt, boolToInt(ev.Recurring),
		ev.RecurrenceType, ev.RecurrenceInterval, marshalInts(ev.DaysOfWeek),
		nullInt64(ev.RecurrenceEndAt), ev.CreatedAt, ev.UpdatedAt)
	return err
}

const eventColumns = `id, family_id, title, location, notes, color, created_by,
	attendee_ids, start_at, end_at, recurring, recurrence_type,
	recurrence_interval, days_of_week, recurrence_end_at, created_at, updated_at`

func (s *Store) scanEvent(row rowScanner) (calendar.Event, error) {
	var ev calendar.Event
	var location, notes, color, createdBy, attendees, recType, daysOfWeek sql.NullString
	var recurring int
	var interval, recEnd, createdAt, updatedAt sql.NullInt64
	err := row.Scan(&ev.ID, &ev.FamilyID, &ev.Title, &location, &notes, &color,
		&createdBy, &attendees, &ev.StartAt, &ev.EndAt, &recurring, &recType,
		&interval, &daysOfWeek, &recEnd, &createdAt, &updatedAt)
	if err != nil {
		return calendar.Event{}, err
	}
	ev.Location = location.String
	ev.Notes = notes.String
	ev.Color = color.String
	ev.CreatedBy = createdBy.String
	ev.AttendeeIDs = unmarshalStrings(attendees)
	ev.Recurring = recurring != 0
	ev.RecurrenceType = recType.String
	ev.RecurrenceInterval = int(interval.Int64)
	ev.DaysOfWeek = unmarshalInts(daysOfWeek)
	ev.RecurrenceEndAt = int64Ptr(recEnd)
	ev.CreatedAt = createdAt.Int64
	ev.UpdatedAt = updatedAt.Int64
	return ev, nil
}

func (s *Store) GetEvent(ctx context.Context, id string) (calendar.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ev, err := s.scanEvent(s.db.QueryRowContext(ctx,
		`SELECT `+eventColumns+` FROM events WHERE id = ?`, id))
	if err == sql.ErrNoRows {
		return calendar.Event{}, household.ErrEventNotFound
	}
	return ev, err
}

func (s *Store) ListEvents(ctx context.Context, familyID string) ([]calendar.Event, error) {
	return s.queryEvents(ctx,
		`SELECT `+eventColumns+` FROM events WHERE family_id = ? ORDER BY start_at`, familyID)
}

// endDateSlackMillis widens the recurrence_end_at comparison by two
// days. The end date is an inclusive calendar day evaluated in the
// family's zone, while the stored value is one instant within (or at the
// midnight of) that day; comparing instants directly would drop a series
// whose last eligible day still overlaps a window starting later that
// same day. Two days covers any zone offset plus a DST-lengthened day;
// the engine discards the extras exactly.
const endDateSlackMillis = 2 * 86_400_000

// ListEventsOverlapping returns the superset of events that can produce
// an occurrence inside [rangeStart, rangeEnd]: one-shots anchored in the
// window, plus recurring events anchored no later than the window end
// whose end date hasn't already passed.
func (s *Store) ListEventsOverlapping(ctx context.Context, familyID string, rangeStart, rangeEnd int64) ([]calendar.Event, error) {
	return s.queryEvents(ctx, `
		SELECT `+eventColumns+` FROM events
		WHERE family_id = ?
		  AND start_at <= ?
		  AND (
			(recurring = 0 AND start_at >= ?)
			OR (recurring = 1 AND (recurrence_end_at IS NULL OR recurrence_end_at >= ?))
		  )
		ORDER BY start_at`,
		familyID, rangeEnd, rangeStart, rangeStart-endDateSlackMillis)
}

func (s *Store) queryEvents(ctx context.Context, query string, args ...any) ([]calendar.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []calendar.Event
	for rows.Next() {
		ev, err := s.scanEvent(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, ev)
	}
	return out, rows.Err()
}

func (s *Store) DeleteEvent(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `DELETE FROM events WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return household.ErrEventNotFound
	}
	return nil
}

// =============================================================================
// CHORES
// =============================================================================

func (s *Store) SaveChore(ctx context.Context, ch chores.Chore) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO chores (id, family_id, title, notes, icon, points, assignee_ids,
			start_at, end_at, recurring, recurrence_type, recurrence_interval,
			days_of_week, recurrence_end_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			notes = excluded.notes,
			icon = excluded.icon,
			points = excluded.points,
			assignee_ids = excluded.assignee_ids,
			start_at = excluded.start_at,
			end_at = excluded.end_at,
			recurring = excluded.recurring,
			recurrence_type = excluded.recurrence_type,
			recurrence_interval = excluded.recurrence_interval,
			days_of_week = excluded.days_of_week,
			recurrence_end_at = excluded.recurrence_end_at,
			updated_at = excluded.updated_at`,
		ch.ID, ch.FamilyID, ch.Title, ch.Notes, ch.Icon, ch.Points.String(),
		marshalStrings(ch.AssigneeIDs), ch.StartAt, ch.EndAt, boolToInt(ch.Recurring),
		ch.RecurrenceType, ch.RecurrenceInterval, marshalInts(ch.DaysOfWeek),
		nullInt64(ch.RecurrenceEndAt), ch.CreatedAt, ch.UpdatedAt)
	return err
}

const choreColumns = `id, family_id, title, notes, icon, points, assignee_ids,
	start_at, end_at, recurring, recurrence_type, recurrence_interval,
	days_of_week, recurrence_end_at, created_at, updated_at`

func (s *Store) scanChore(row rowScanner) (chores.Chore, error) {
	var ch chores.Chore
	var notes, icon, points, assignees, recType, daysOfWeek sql.NullString
	var recurring int
	var interval, recEnd, createdAt, updatedAt sql.NullInt64
	err := row.Scan(&ch.ID, &ch.FamilyID, &ch.Title, &notes, &icon, &points,
		&assignees, &ch.StartAt, &ch.EndAt, &recurring, &recType, &interval,
		&daysOfWeek, &recEnd, &createdAt, &updatedAt)
	if err != nil {
		return chores.Chore{}, err
	}
	ch.Notes = notes.String
	ch.Icon = icon.String
	ch.Points, _ = decimal.NewFromString(points.String)
	ch.AssigneeIDs = unmarshalStrings(assignees)
	ch.Recurring = recurring != 0
	ch.RecurrenceType = recType.String
	ch.RecurrenceInterval = int(interval.Int64)
	ch.DaysOfWeek = unmarshalInts(daysOfWeek)
	ch.RecurrenceEndAt = int64Ptr(recEnd)
	ch.CreatedAt = createdAt.Int64
	ch.UpdatedAt = updatedAt.Int64
	return ch, nil
}

func (s *Store) GetChore(ctx context.Context, id string) (chores.Chore, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ch, err := s.scanChore(s.db.QueryRowContext(ctx,
		`SELECT `+choreColumns+` FROM chores WHERE id = ?`, id))
	if err == sql.ErrNoRows {
		return chores.Chore{}, household.ErrChoreNotFound
	}
	return ch, err
}

func (s *Store) ListChores(ctx context.Context, familyID string) ([]chores.Chore, error) {
	return s.queryChores(ctx,
		`SELECT `+choreColumns+` FROM chores WHERE family_id = ? ORDER BY start_at`, familyID)
}

// ListChoresOverlapping mirrors ListEventsOverlapping for chores.
func (s *Store) ListChoresOverlapping(ctx context.Context, familyID string, rangeStart, rangeEnd int64) ([]chores.Chore, error) {
	return s.queryChores(ctx, `
		SELECT `+choreColumns+` FROM chores
		WHERE family_id = ?
		  AND start_at <= ?
		  AND (
			(recurring = 0 AND start_at >= ?)
			OR (recurring = 1 AND (recurrence_end_at IS NULL OR recurrence_end_at >= ?))
		  )
		ORDER BY start_at`,
		familyID, rangeEnd, rangeStart, rangeStart-endDateSlackMillis)
}

func (s *Store) queryChores(ctx context.Context, query string, args ...any) ([]chores.Chore, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []chores.Chore
	for rows.Next() {
		ch, err := s.scanChore(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, ch)
	}
	return out, rows.Err()
}

func (s *Store) DeleteChore(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `DELETE FROM chores WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return household.ErrChoreNotFound
	}
	return nil
}

// =============================================================================
// COMPLETIONS (append-only)
// =============================================================================

func (s *Store) AppendCompletion(ctx context.Context, c chores.Completion) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var exists int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(1) FROM completions
		WHERE chore_id = ? AND member_id = ? AND day = ?`,
		c.ChoreID, c.MemberID, c.Day).Scan(&exists)
	if err != nil {
		return err
	}
	if exists > 0 {
		return household.ErrDuplicateCompletion
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO completions (id, family_id, chore_id, member_id, day, points, completed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.FamilyID, c.ChoreID, c.MemberID, c.Day, c.Points.String(), c.CompletedAt)
	return err
}

func (s *Store) ListCompletions(ctx context.Context, familyID string) ([]chores.Completion, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, family_id, chore_id, member_id, day, points, completed_at
		FROM completions WHERE family_id = ? ORDER BY completed_at`, familyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []chores.Completion
	for rows.Next() {
		var c chores.Completion
		var points string
		if err := rows.Scan(&c.ID, &c.FamilyID, &c.ChoreID, &c.MemberID, &c.Day, &points, &c.CompletedAt); err != nil {
			return nil, err
		}
		c.Points, _ = decimal.NewFromString(points)
		out = append(out, c)
	}
	return out, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
