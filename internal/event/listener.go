package event

import (
	"context"
	"errors"
	"time"
	
	"cloud.google.com/go/firestore"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Listener watches Firestore for newly created trigger documents and forwards
// them to a Handler.
type Listener struct {
	client  *firestore.Client
	handler Handler
}

func NewListener(client *firestore.Client, handler Handler) *Listener {
	return &Listener{
		client:  client,
		handler: handler,
	}
}

// Run blocks until ctx is cancelled or a snapshot stream fails.
func (l *Listener) Run(ctx context.Context) error {
	// Snapshot listeners replay every existing document on the first
	// snapshot, only documents created after this instant are dispatched.
	// Trigger documents have no creation timestamp field, so the replay
	// cannot be narrowed server-side and is read in full on every start.
	startedAt := time.Now()
	
	queries := map[string]firestore.Query{
		"comments": l.client.CollectionGroup("comments").Query,
		"matches":  l.client.Collection("matches").Query,
		"messages": l.client.CollectionGroup("messages").Query,
	}
	
	group, ctx := errgroup.WithContext(ctx)
	for name, query := range queries {
		group.Go(func() error {
			return l.watch(ctx, name, query, startedAt)
		})
	}
	
	return group.Wait()
}

func (l *Listener) watch(ctx context.Context, name string, query firestore.Query, startedAt time.Time) error {
	it := query.Snapshots(ctx)
	defer it.Stop()
	
	log.Info().Str("collection", name).Msg("listening for new documents")
	
	for {
		snapshot, err := it.Next()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, iterator.Done) || status.Code(err) == codes.Canceled {
				log.Info().Str("collection", name).Msg("listener stopped")
				return nil
			}
			
			return err
		}
		
		for _, change := range snapshot.Changes {
			if change.Kind != firestore.DocumentAdded || change.Doc.CreateTime.Before(startedAt) {
				continue
			}
			
			l.dispatch(ctx, change.Doc.Ref.Path)
		}
	}
}

func (l *Listener) dispatch(ctx context.Context, document string) {
	event, err := Parse(document)
	if err != nil {
		// Collection groups also match unrelated sub-collections with the same name.
		log.Debug().Str("document", document).Msg("ignoring document")
		return
	}
	
	if err = l.handler.HandleEvent(ctx, event); err != nil {
		log.Error().Err(err).
			Str("type", event.Type).
			Str("document", event.Document).
			Msg("failed to handle event")
	}
}
