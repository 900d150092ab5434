// Package scheduledcontent provides a reusable library for deferred content
// publishing: items are authored now, held durably with their attachments,
// and promoted into permanent published records once their scheduled time
// has passed.
//
// It exposes a single Service interface that orchestrates the scheduled-item
// lifecycle (schedule, update, cancel, delete) and the batch PublishDue
// operation driven by an external scheduler. Implementations of repositories
// (memory, Postgres) and downstream content stores are provided under
// subpackages.
//
// # Publishing semantics
//
// Every due item is claimed with a store-level conditional status transition
// before its downstream write, so overlapping PublishDue runs promote each
// item at most once. A failed promotion is terminal for that item and never
// aborts the rest of the batch.
package scheduledcontent
