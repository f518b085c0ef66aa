package services

import (
	"errors"
	"fmt"
	"iter"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/coinboard/backend/internal/ledger"
	"github.com/coinboard/backend/internal/models"
	"github.com/coinboard/backend/internal/registry"
)

// Storage-level errors surfaced through the engine.
var (
	ErrNotFound          = registry.ErrNotFound
	ErrInsufficientFunds = registry.ErrInsufficientFunds
	ErrDuplicateHandle   = registry.ErrDuplicateHandle
)

// ErrTaskNotOpen is returned when claiming a task that is not open (already
// claimed, submitted, or settled).
var ErrTaskNotOpen = errors.New("task is not open")

// ErrNotClaimant is returned when submitting work for a task the caller has
// not claimed.
var ErrNotClaimant = errors.New("caller is not the claimant")

// ErrNotAuthorized is returned when approving or rejecting work on a task the
// caller did not post, or reading privileged platform figures.
var ErrNotAuthorized = errors.New("not authorized")

// ErrInvalidAmount is returned for non-positive bounties and top-ups.
var ErrInvalidAmount = errors.New("amount must be positive")

// Engine orchestrates the account registry, task registry and ledger: it
// computes fees, moves coins into and out of escrow, enforces state-machine
// legality and authorization, and writes one ledger entry per coin movement.
//
// Every mutating operation is atomic: all preconditions are checked before
// any balance, task field, or ledger entry changes, so a rejected operation
// leaves no trace. A single lock serializes mutations; reads return copies.
type Engine struct {
	mu       sync.RWMutex
	accounts *registry.Accounts
	tasks    *registry.Tasks
	ledger   *ledger.Ledger

	revenue    int // coins retained by the platform (posting fees)
	introduced int // coins ever created via seed balances and top-ups

	newID func() uuid.UUID
	now   func() time.Time
	log   *slog.Logger
}

func NewEngine(accounts *registry.Accounts, tasks *registry.Tasks, l *ledger.Ledger, log *slog.Logger) *Engine {
	if log == nil {
		log = slog.Default()
	}
	return &Engine{
		accounts: accounts,
		tasks:    tasks,
		ledger:   l,
		newID:    uuid.New,
		now:      time.Now,
		log:      log,
	}
}

// append writes a single coin movement to the ledger. Callers hold e.mu.
func (e *Engine) append(ref uuid.UUID, delta int, note string) {
	e.ledger.Append(models.LedgerEntry{
		ID:         e.newID(),
		AccountRef: ref,
		Delta:      delta,
		Note:       note,
		At:         e.now(),
	})
}

// --- accounts ---

// CreateAccount registers a new account. A positive starting balance is
// recorded as a seed-balance ledger entry and counts toward the coins ever
// introduced; it does not touch the lifetime counters.
func (e *Engine) CreateAccount(handle, displayName, passwordHash, avatarRef string, coins int, privileged bool) (models.Account, error) {
	if coins < 0 {
		return models.Account{}, ErrInvalidAmount
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	acc := &models.Account{
		ID:           e.newID(),
		Handle:       handle,
		DisplayName:  displayName,
		AvatarRef:    avatarRef,
		PasswordHash: passwordHash,
		IsPrivileged: privileged,
		CreatedAt:    e.now(),
	}
	if err := e.accounts.Put(acc); err != nil {
		return models.Account{}, err
	}
	if coins > 0 {
		if _, err := e.accounts.Credit(acc.ID, coins); err != nil {
			return models.Account{}, err
		}
		e.introduced += coins
		e.append(acc.ID, coins, fmt.Sprintf("seed balance of %d coins", coins))
	}
	e.log.Info("account created", "account_id", acc.ID, "handle", handle, "coins", coins)
	return *acc, nil
}

// GetAccount returns a snapshot of the account.
func (e *Engine) GetAccount(id uuid.UUID) (models.Account, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	acc, err := e.accounts.Get(id)
	if err != nil {
		return models.Account{}, err
	}
	return *acc, nil
}

// GetAccountByHandle returns a snapshot of the account with the given handle.
func (e *Engine) GetAccountByHandle(handle string) (models.Account, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	acc, err := e.accounts.GetByHandle(handle)
	if err != nil {
		return models.Account{}, err
	}
	return *acc, nil
}

// AddCoins tops up an account. Top-ups introduce new coins into the system
// and leave the lifetime earned/spent counters untouched.
func (e *Engine) AddCoins(accountID uuid.UUID, amount int) (models.Account, error) {
	if amount <= 0 {
		return models.Account{}, ErrInvalidAmount
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	acc, err := e.accounts.Get(accountID)
	if err != nil {
		return models.Account{}, err
	}
	if _, err := e.accounts.Credit(accountID, amount); err != nil {
		return models.Account{}, err
	}
	e.introduced += amount
	e.append(accountID, amount, fmt.Sprintf("top-up of %d coins", amount))
	e.log.Info("top-up", "account_id", accountID, "amount", amount)
	return *acc, nil
}

// --- task lifecycle ---

// PostTask funds a task: the poster is debited bounty + fee, the fee goes to
// platform revenue, and the bounty is held in escrow on the new task.
func (e *Engine) PostTask(title, description string, tags []string, bounty int, posterID uuid.UUID) (models.Task, error) {
	if bounty <= 0 {
		return models.Task{}, ErrInvalidAmount
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	poster, err := e.accounts.Get(posterID)
	if err != nil {
		return models.Task{}, err
	}
	fee := ComputeFee(bounty)
	total := bounty + fee
	if poster.Coins < total {
		return models.Task{}, ErrInsufficientFunds
	}

	// Preconditions hold; apply the whole movement.
	if _, err := e.accounts.Debit(posterID, total); err != nil {
		return models.Task{}, err
	}
	poster.LifetimeSpent += total
	e.revenue += fee

	task := &models.Task{
		ID:          e.newID(),
		Title:       title,
		Description: description,
		Tags:        append([]string(nil), tags...),
		Bounty:      bounty,
		PosterID:    posterID,
		Status:      models.TaskStatusOpen,
		PlatformFee: fee,
		Escrow:      bounty,
		CreatedAt:   e.now(),
	}
	e.tasks.Insert(task)

	e.append(posterID, -total, fmt.Sprintf("posted %q: bounty %d + fee %d", title, bounty, fee))
	e.append(models.PlatformAccountID, fee, fmt.Sprintf("platform fee for %q", title))

	e.log.Info("task posted", "task_id", task.ID, "poster_id", posterID, "bounty", bounty, "fee", fee)
	return snapshotTask(task), nil
}

// ClaimTask assigns an open task to a worker. First claimant wins; no coins
// move.
func (e *Engine) ClaimTask(taskID, workerID uuid.UUID) (models.Task, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	task, err := e.tasks.Get(taskID)
	if err != nil {
		return models.Task{}, err
	}
	if _, err := e.accounts.Get(workerID); err != nil {
		return models.Task{}, err
	}
	if task.Status != models.TaskStatusOpen {
		return models.Task{}, ErrTaskNotOpen
	}

	task.Status = models.TaskStatusClaimed
	task.ClaimedBy = &workerID

	e.log.Info("task claimed", "task_id", taskID, "worker_id", workerID)
	return snapshotTask(task), nil
}

// SubmitWork attaches the claimant's submission note and moves the task to
// submitted.
func (e *Engine) SubmitWork(taskID, workerID uuid.UUID, note string) (models.Task, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	task, err := e.tasks.Get(taskID)
	if err != nil {
		return models.Task{}, err
	}
	if task.Status != models.TaskStatusClaimed || task.ClaimedBy == nil || *task.ClaimedBy != workerID {
		return models.Task{}, ErrNotClaimant
	}

	task.SubmissionNote = note
	task.Status = models.TaskStatusSubmitted

	e.log.Info("work submitted", "task_id", taskID, "worker_id", workerID)
	return snapshotTask(task), nil
}

// ApproveWork pays the escrowed bounty out to the claimant. Only the original
// poster may approve, and only from submitted.
func (e *Engine) ApproveWork(taskID, posterID uuid.UUID) (models.Task, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	task, err := e.tasks.Get(taskID)
	if err != nil {
		return models.Task{}, err
	}
	if task.Status != models.TaskStatusSubmitted || task.PosterID != posterID {
		return models.Task{}, ErrNotAuthorized
	}

	workerID := *task.ClaimedBy
	payout := task.Escrow
	worker, err := e.accounts.Get(workerID)
	if err != nil {
		return models.Task{}, err
	}
	if _, err := e.accounts.Credit(workerID, payout); err != nil {
		return models.Task{}, err
	}
	worker.LifetimeEarned += payout
	task.Escrow = 0
	task.Status = models.TaskStatusApproved

	e.append(workerID, payout, fmt.Sprintf("payout for %q", task.Title))

	e.log.Info("work approved", "task_id", taskID, "worker_id", workerID, "payout", payout)
	return snapshotTask(task), nil
}

// RejectWork refunds the escrowed bounty to the poster. The refund is not new
// income: lifetime counters stay untouched. Rejection is final; the task
// cannot be re-claimed or re-listed.
func (e *Engine) RejectWork(taskID, posterID uuid.UUID, reason string) (models.Task, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	task, err := e.tasks.Get(taskID)
	if err != nil {
		return models.Task{}, err
	}
	if task.Status != models.TaskStatusSubmitted || task.PosterID != posterID {
		return models.Task{}, ErrNotAuthorized
	}

	refund := task.Escrow
	if _, err := e.accounts.Credit(task.PosterID, refund); err != nil {
		return models.Task{}, err
	}
	task.Escrow = 0
	task.Status = models.TaskStatusRejected
	task.RejectReason = reason

	note := fmt.Sprintf("refund for %q", task.Title)
	if reason != "" {
		note += ": " + reason
	}
	e.append(task.PosterID, refund, note)

	e.log.Info("work rejected", "task_id", taskID, "poster_id", posterID, "refund", refund, "reason", reason)
	return snapshotTask(task), nil
}

// --- queries ---

// GetTask returns a snapshot of the task.
func (e *Engine) GetTask(id uuid.UUID) (models.Task, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	task, err := e.tasks.Get(id)
	if err != nil {
		return models.Task{}, err
	}
	return snapshotTask(task), nil
}

// ListTasks returns task snapshots, most-recent-first. A non-empty query
// fuzzy-filters over title, description and tags, best match first.
func (e *Engine) ListTasks(query string) []models.Task {
	e.mu.RLock()
	defer e.mu.RUnlock()
	live := e.tasks.Search(query)
	out := make([]models.Task, 0, len(live))
	for _, t := range live {
		out = append(out, snapshotTask(t))
	}
	return out
}

// LedgerFor returns the account's ledger entries in insertion order as a
// restartable sequence.
func (e *Engine) LedgerFor(accountID uuid.UUID) iter.Seq[models.LedgerEntry] {
	return e.ledger.EntriesFor(accountID)
}

// PlatformRevenue returns the coins retained by the platform. Restricted to
// privileged accounts.
func (e *Engine) PlatformRevenue(callerID uuid.UUID) (int, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	caller, err := e.accounts.Get(callerID)
	if err != nil {
		return 0, err
	}
	if !caller.IsPrivileged {
		return 0, ErrNotAuthorized
	}
	return e.revenue, nil
}

// OpenEscrowTotal sums the escrow held on tasks that have not settled.
func (e *Engine) OpenEscrowTotal() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	total := 0
	for _, t := range e.tasks.List() {
		total += t.Escrow
	}
	return total
}

// CoinsIntroduced returns the coins ever created via seed balances and
// top-ups. At every point, account coins + platform revenue + open escrow
// must equal this figure.
func (e *Engine) CoinsIntroduced() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.introduced
}

// AccountCoinsTotal sums the spendable balances of every account.
func (e *Engine) AccountCoinsTotal() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.accounts.Total()
}

// snapshotTask copies a task so callers cannot reach live registry state.
func snapshotTask(t *models.Task) models.Task {
	cp := *t
	cp.Tags = append([]string(nil), t.Tags...)
	if t.ClaimedBy != nil {
		id := *t.ClaimedBy
		cp.ClaimedBy = &id
	}
	return cp
}
