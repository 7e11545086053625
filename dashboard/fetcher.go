package dashboard

import (
	"context"
	"errors"
	"strconv"

	"golang.org/x/sync/errgroup"

	amoErrors "github.com/block/amocrm-go/errors"
	"github.com/block/amocrm-go/logger"
	"github.com/block/amocrm-go/queue"
	"github.com/block/amocrm-go/retry"
	"github.com/block/amocrm-go/state"
	"github.com/block/amocrm-go/types"
)

// LeadsApi is the part of api.Leads the fetcher needs.
type LeadsApi interface {
	Page(ctx context.Context, page int, limit int) (*types.LeadsPage, error)
}

// ContactsApi is the part of api.Contacts the fetcher needs.
type ContactsApi interface {
	Get(ctx context.Context, id int64) (*types.Contact, bool, error)
}

// TasksApi is the part of api.Tasks the fetcher needs.
type TasksApi interface {
	ByLead(ctx context.Context, leadId int64) (*types.Task, bool, error)
}

// Fetcher loads the dashboard data through one rate-limited queue:
// lead pages, the contacts of every lead and the task of an opened card.
// Every change is published to the Store.
//
// Usage Example:
//
//	f, err := dashboard.NewFetcher(leadsApi, contactsApi, tasksApi, nil, dashboard.FetcherConfig{})
//	if err != nil {
//	    return err
//	}
//	f.Start()
//	defer f.Stop()
//
//	updates := f.Store().Subscribe()
//	go render(updates)
//
//	leads, err := f.Leads(ctx)
//	task, opened, err := f.OpenCard(ctx, leads[0].Id)
type Fetcher struct {
	leads    LeadsApi
	contacts ContactsApi
	tasks    TasksApi

	config FetcherConfig
	logger logger.Logger
	retry  retry.Retry
	queue  *queue.Queue
	store  *state.Store
	cache  *state.TaskCache
}

// NewFetcher builds a fetcher and its queue. A nil store is replaced by a new one.
// The queue only refills after Start.
// It fails with queue.ErrInvalidCapacity for a negative PermitsPerSecond.
func NewFetcher(
	leads LeadsApi,
	contacts ContactsApi,
	tasks TasksApi,
	store *state.Store,
	config FetcherConfig,
) (*Fetcher, error) {
	config = applyFetcherConfig(config)

	q, err := queue.New(queue.Config{
		PermitsPerSecond: config.PermitsPerSecond,
		Clock:            config.Clock,
		Logger:           config.Logger,
	})
	if err != nil {
		return nil, err
	}
	if store == nil {
		store = state.NewStore()
	}

	return &Fetcher{
		leads:    leads,
		contacts: contacts,
		tasks:    tasks,
		config:   config,
		logger:   config.Logger,
		retry:    config.Retry,
		queue:    q,
		store:    store,
		cache:    state.NewTaskCache(config.TaskCacheSize),
	}, nil
}

// Start starts refilling the queue's permits. Without it only the first
// PermitsPerSecond requests are ever sent.
func (f *Fetcher) Start() {
	f.queue.Start()
}

// Stop stops the queue. Lookups still waiting for a permit fail with
// queue.ErrQueueStopped.
func (f *Fetcher) Stop() {
	f.queue.Stop()
}

func (f *Fetcher) Store() *state.Store {
	return f.store
}

func (f *Fetcher) Queue() *queue.Queue {
	return f.queue
}

// Leads loads every lead page by page and fills in each lead's main contact.
//
// Pages are requested in rounds of PermitsPerSecond concurrent requests.
// The first page without a next link, with no leads or answered with 204
// ends the listing once its round is done; pages after it are ignored.
// The store gets the leads accumulated so far after every page.
//
// A page that still fails after MaxRetries ends the listing with that
// error; the leads loaded before it are returned along with it.
// Failed contact lookups never fail the listing, the lead gets
// types.ContactPlaceholder instead.
func (f *Fetcher) Leads(ctx context.Context) ([]types.Lead, error) {
	var all []types.Lead
	f.store.SetLeads(nil, true)

	round := f.queue.Capacity()
	for first := 1; ; first += round {
		pages, err := f.pageRound(ctx, first, round)
		if err != nil {
			f.store.SetLeads(all, false)
			return all, err
		}

		more := true
		var loaded [][]types.Lead
		for _, page := range pages {
			leads := page.Leads()
			if len(leads) == 0 {
				more = false
				break
			}
			loaded = append(loaded, leads)
			if !page.HasNext() {
				more = false
				break
			}
		}

		lookups := f.lookupContacts(ctx, loaded)
		for _, leads := range loaded {
			all = append(all, f.withContacts(ctx, leads, lookups)...)
			f.store.SetLeads(all, true)
		}

		if !more {
			f.logger.Debugf("dashboard: loaded %d leads from %d pages", len(all), first+len(loaded)-1)
			break
		}
	}

	f.store.SetLeads(all, false)
	return all, nil
}

// pageRound requests pages [first, first+n) concurrently.
// The result keeps page order; a nil entry is a page amoCRM answered with 204.
func (f *Fetcher) pageRound(ctx context.Context, first int, n int) ([]*types.LeadsPage, error) {
	pages := make([]*types.LeadsPage, n)

	g, gCtx := errgroup.WithContext(ctx)
	for i := 0; i < n; i++ {
		g.Go(func() error {
			page, err := f.page(gCtx, first+i)
			if err != nil {
				return err
			}
			pages[i] = page
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return pages, nil
}

func (f *Fetcher) page(ctx context.Context, n int) (*types.LeadsPage, error) {
	var res *types.LeadsPage
	err := f.retry.Do(
		ctx,
		f.config.MaxRetries,
		"dashboard.Fetcher.page-"+strconv.Itoa(n),
		func(attempt int) (error, retry.ExitStrategy) {
			page, err := queue.Do(ctx, f.queue, func(ctx context.Context) (*types.LeadsPage, error) {
				return f.leads.Page(ctx, n, f.config.PageLimit)
			})
			if err != nil {
				if amoErrors.IsRetryable(err) {
					return err, retry.Continue
				}
				return err, retry.StopNow
			}
			res = page
			return nil, retry.StopNow
		},
	)
	if err != nil {
		return nil, err
	}
	return res, nil
}

// lookupContacts enqueues one lookup per distinct contact id of the given leads.
func (f *Fetcher) lookupContacts(ctx context.Context, pages [][]types.Lead) map[int64]*queue.Future {
	lookups := make(map[int64]*queue.Future)
	for _, leads := range pages {
		for _, lead := range leads {
			for _, id := range lead.ContactIds() {
				if _, ok := lookups[id]; ok {
					continue
				}
				lookups[id] = f.queue.Enqueue(ctx, func(ctx context.Context) (any, error) {
					contact, found, err := f.contacts.Get(ctx, id)
					if err != nil || !found {
						return nil, err
					}
					return *contact, nil
				})
			}
		}
	}
	return lookups
}

func (f *Fetcher) withContacts(ctx context.Context, leads []types.Lead, lookups map[int64]*queue.Future) []types.Lead {
	out := make([]types.Lead, len(leads))
	for i, lead := range leads {
		contact := types.ContactPlaceholder()
		if ids := lead.ContactIds(); len(ids) > 0 {
			contact = f.awaitContact(ctx, lead.Id, ids[0], lookups[ids[0]])
		}
		lead.ContactName = contact.Name
		lead.ContactPhone = types.FormatPhone(contact.Phone())
		out[i] = lead
	}
	return out
}

func (f *Fetcher) awaitContact(ctx context.Context, leadId int64, contactId int64, lookup *queue.Future) types.Contact {
	res, err := lookup.Wait(ctx)
	if err != nil {
		f.logger.Warnf("dashboard: contact %d of lead %d unavailable: %v", contactId, leadId, err)
		return types.ContactPlaceholder()
	}
	contact, ok := res.(types.Contact)
	if !ok {
		f.logger.Debugf("dashboard: contact %d of lead %d not found", contactId, leadId)
		return types.ContactPlaceholder()
	}
	return contact
}

// Task returns the lead's task, or types.TaskPlaceholder if the lead has
// none or the lookup failed. A newer Task call for the same lead cancels
// this one, which then returns queue.ErrCancelled.
func (f *Fetcher) Task(ctx context.Context, leadId int64) (types.Task, error) {
	task, err := f.task(ctx, leadId)
	if err == nil {
		return task, nil
	}
	if queue.IsCancelled(err) || ctx.Err() != nil {
		f.logger.Debugf("dashboard: task lookup for lead %d cancelled: %v", leadId, err)
		return types.Task{}, err
	}
	f.logger.Warnf("dashboard: task lookup for lead %d failed: %v", leadId, err)
	return types.TaskPlaceholder(), nil
}

func (f *Fetcher) task(ctx context.Context, leadId int64) (types.Task, error) {
	return queue.Do(ctx, f.queue, func(ctx context.Context) (types.Task, error) {
		task, found, err := f.tasks.ByLead(ctx, leadId)
		if err != nil {
			return types.Task{}, err
		}
		if !found {
			return types.TaskPlaceholder(), nil
		}
		return *task, nil
	}, queue.WithKey(leadKey(leadId)))
}

// OpenCard toggles the card of a lead the way the dashboard does on click.
//
// If the card was open it is closed, its pending lookup is cancelled and
// opened is false. Otherwise the previously open card's lookup is cancelled
// and the lead's task is loaded, from the cache of recent tasks when
// possible, and attached to the lead in the store.
// Lookup failures other than cancellation give types.TaskPlaceholder
// which is not cached.
func (f *Fetcher) OpenCard(ctx context.Context, leadId int64) (task types.Task, opened bool, err error) {
	previous, opened := f.store.ToggleOpened(leadId)
	if previous != state.NoLeadOpened {
		f.queue.Cancel(leadKey(previous))
	}
	if !opened {
		return types.Task{}, false, nil
	}

	if cached, ok := f.cache.Get(leadId); ok {
		f.store.UpdateTask(leadId, cached)
		return cached, true, nil
	}

	task, err = f.task(ctx, leadId)
	switch {
	case err == nil:
		f.cache.Put(leadId, task)
	case queue.IsCancelled(err), ctx.Err() != nil:
		return types.Task{}, true, err
	default:
		f.logger.Warnf("dashboard: task lookup for lead %d failed: %v", leadId, err)
		task = types.TaskPlaceholder()
	}

	f.store.UpdateTask(leadId, task)
	return task, true, nil
}

func leadKey(leadId int64) string {
	return "lead:" + strconv.FormatInt(leadId, 10)
}

// IsCancelled reports whether err came from a lookup that was replaced or
// abandoned rather than one that failed.
func IsCancelled(err error) bool {
	return queue.IsCancelled(err) || errors.Is(err, context.Canceled)
}
