package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/you/travel-marketplace/pkg/errs"
	"github.com/you/travel-marketplace/services/search-service/internal/vector"
)

// Collections in the vector store. One per searchable entity kind.
const (
	CollectionListings = "listings"
	CollectionEvents   = "events"
)

// Mode selects which side of the marketplace a query searches.
type Mode string

const (
	ModeViaVendor Mode = "via_vendor"
	ModeViaAgency Mode = "via_agency"
)

// Filters are ANDed relational predicates applied after the vector stage.
type Filters struct {
	MinPrice *float64
	MaxPrice *float64
	Tags     []string
	City     string
}

// Result is one scored search hit after the relational join.
type Result struct {
	ID          string          `json:"id"`
	OwnerID     string          `json:"ownerId"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Price       float64         `json:"price"`
	Tags        []string        `json:"tags"`
	Location    json.RawMessage `json:"location,omitempty"`
	StartDate   *time.Time      `json:"startDate,omitempty"`
	Score       float64         `json:"score"`
}

// Index is the similarity stage of the pipeline.
type Index interface {
	Search(ctx context.Context, collection string, vec []float32, limit int) ([]vector.Hit, error)
}

// Store is the relational stage. Implementations apply the filters and,
// for listings, restrict to published rows.
type Store interface {
	Listings(ctx context.Context, ids []string, f Filters) ([]Result, error)
	Events(ctx context.Context, ids []string, f Filters) ([]Result, error)
}

const (
	overfetch = 50
	topK      = 10
)

// Coordinator runs semantic search: embed the query, overfetch candidates
// from the vector store, join against the relational source of truth,
// then merge scores and rank.
type Coordinator struct {
	embed vector.Embedder
	index Index
	store Store
}

func New(embed vector.Embedder, index Index, store Store) *Coordinator {
	return &Coordinator{embed: embed, index: index, store: store}
}

func (c *Coordinator) SemanticSearch(ctx context.Context, query string, f Filters, mode Mode) ([]Result, error) {
	if strings.TrimSpace(query) == "" {
		return nil, errs.Validation("query is required")
	}
	collection := CollectionListings
	switch mode {
	case ModeViaVendor, "":
	case ModeViaAgency:
		collection = CollectionEvents
	default:
		return nil, errs.Validationf("unknown search mode %q", mode)
	}

	vec, err := c.embed.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	hits, err := c.index.Search(ctx, collection, vec, overfetch)
	if err != nil {
		return nil, fmt.Errorf("vector search: %w", err)
	}

	ids, scores := entityIDs(hits)
	if len(ids) == 0 {
		return []Result{}, nil
	}

	var rows []Result
	if collection == CollectionEvents {
		rows, err = c.store.Events(ctx, ids, f)
	} else {
		rows, err = c.store.Listings(ctx, ids, f)
	}
	if err != nil {
		return nil, err
	}

	for i := range rows {
		rows[i].Score = scores[rows[i].ID]
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Score > rows[j].Score })
	if len(rows) > topK {
		rows = rows[:topK]
	}
	return rows, nil
}

// entityIDs extracts the entity id from each hit's payload, falling back
// to the point id for points written before payloads carried entityId.
// The highest score wins when a hit repeats an entity.
func entityIDs(hits []vector.Hit) ([]string, map[string]float64) {
	ids := make([]string, 0, len(hits))
	scores := make(map[string]float64, len(hits))
	for _, h := range hits {
		id := h.ID
		if v, ok := h.Payload["entityId"].(string); ok && v != "" {
			id = v
		}
		if id == "" {
			continue
		}
		if prev, seen := scores[id]; !seen {
			ids = append(ids, id)
			scores[id] = h.Score
		} else if h.Score > prev {
			scores[id] = h.Score
		}
	}
	return ids, scores
}
