// Package roles keeps a user's global role consistent with their club
// memberships.
//
// The global role on the users table is a cache derived from the membership
// rows: Executive if any membership carries an executive title, Member if any
// membership exists, Guest otherwise. Admin is assigned directly and is never
// recomputed. Every code path that inserts, updates or deletes a membership
// must call Recompute for the affected user, except club deletion, which
// recomputes all affected users with bulk statements (RecomputeBulk).
//
// A user may hold an executive title in at most one club system-wide; the
// guard is CheckExecutiveElsewhere. Duplicate titles within a single club are
// not rejected anywhere in the system.
//
// The duplicate-membership and pending-request checks here and in the
// handlers are check-then-act. The memberships table backs the first with a
// unique index on (user_id, club_id); pending-request uniqueness has no store
// constraint (a partial unique index is not expressible in gorm tags), so two
// racing join calls can leave two Pending rows. The accept path tolerates
// this by clearing stale requests before approving.
package roles
