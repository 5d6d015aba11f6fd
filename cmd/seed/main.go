// Package main provides a tool to seed the database with a demo library.
//
// It creates two users with overlapping libraries, a status share between
// them, and one list of each type so the API has something to resolve.
//
// Usage:
//
//	DATA_PATH=~/Couchlist/data go run ./cmd/seed
//	DATA_PATH=~/Couchlist/data go run ./cmd/seed --seed 42
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/jdotfite/couchlist/internal/access"
	"github.com/jdotfite/couchlist/internal/config"
	"github.com/jdotfite/couchlist/internal/domain"
	"github.com/jdotfite/couchlist/internal/id"
	"github.com/jdotfite/couchlist/internal/resolver"
	"github.com/jdotfite/couchlist/internal/service"
	"github.com/jdotfite/couchlist/internal/store/sqlite"
	"github.com/jdotfite/couchlist/internal/validation"
)

var seed = flag.Int64("seed", 0, "Random seed (0 picks one from the clock)")

type title struct {
	name   string
	kind   domain.MediaType
	year   int
	genres []string
}

var catalog = []title{
	{"Arrival", domain.MediaTypeMovie, 2016, []string{"science fiction", "drama"}},
	{"Paddington 2", domain.MediaTypeMovie, 2017, []string{"comedy", "family"}},
	{"Spirited Away", domain.MediaTypeMovie, 2001, []string{"animation", "fantasy"}},
	{"The Third Man", domain.MediaTypeMovie, 1949, []string{"thriller"}},
	{"Heat", domain.MediaTypeMovie, 1995, []string{"crime", "thriller"}},
	{"Andor", domain.MediaTypeShow, 2022, []string{"science fiction"}},
	{"Taskmaster", domain.MediaTypeShow, 2015, []string{"comedy"}},
	{"The Wire", domain.MediaTypeShow, 2002, []string{"crime", "drama"}},
	{"Severance", domain.MediaTypeShow, 2022, []string{"science fiction", "thriller"}},
	{"Bluey", domain.MediaTypeShow, 2018, []string{"animation", "family"}},
}

func main() {
	flag.Parse()

	dataPath := os.Getenv("DATA_PATH")
	if dataPath == "" {
		dataPath = os.ExpandEnv("$HOME/Couchlist/data")
	}
	if err := os.MkdirAll(dataPath, 0o755); err != nil {
		log.Fatalf("Failed to create data directory: %v", err)
	}
	dbPath := filepath.Join(dataPath, "couchlist.db")

	fmt.Printf("Opening database at: %s\n", dbPath)

	s, err := sqlite.Open(dbPath, nil)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer s.Close()

	ctx := context.Background()

	if *seed == 0 {
		*seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(*seed))
	fmt.Printf("Using seed %d\n", *seed)

	alice := id.MustGenerate(id.PrefixUser)
	bob := id.MustGenerate(id.PrefixUser)
	for userID, name := range map[string]string{alice: "Alice", bob: "Bob"} {
		if err := s.CreateUser(ctx, userID, name); err != nil {
			log.Fatalf("Failed to create user %s: %v", name, err)
		}
		fmt.Printf("Created user %s (%s)\n", name, userID)
	}

	mediaIDs := make([]string, len(catalog))
	for i, t := range catalog {
		year := t.year
		mediaIDs[i] = id.MustGenerate(id.PrefixMedia)
		if err := s.UpsertMediaItem(ctx, &domain.MediaItem{
			ID:          mediaIDs[i],
			Type:        t.kind,
			Title:       t.name,
			ReleaseYear: &year,
			Genres:      t.genres,
		}); err != nil {
			log.Fatalf("Failed to create media item %s: %v", t.name, err)
		}
	}
	fmt.Printf("Created %d catalog items\n", len(catalog))

	statuses := domain.CanonicalStatuses()
	now := time.Now()
	for _, userID := range []string{alice, bob} {
		records := 0
		for _, mediaID := range mediaIDs {
			// Each user tracks roughly 70% of the catalog.
			if rng.Float32() > 0.7 {
				continue
			}
			status := statuses[rng.Intn(len(statuses))]
			rec := &domain.TaggedMediaRecord{
				UserID:          userID,
				MediaItemID:     mediaID,
				Status:          status,
				StatusUpdatedAt: now.Add(-time.Duration(rng.Intn(60*24)) * time.Hour),
			}
			if status == domain.StatusFinished {
				rating := float64(1+rng.Intn(10)) / 2
				watched := now.Year() - rng.Intn(3)
				rec.Rating = &rating
				rec.WatchedYear = &watched
			}
			if err := s.SetRecord(ctx, rec); err != nil {
				log.Fatalf("Failed to create record: %v", err)
			}
			if rng.Float32() < 0.3 {
				if err := s.AddTag(ctx, userID, mediaID, domain.FavoriteTag); err != nil {
					log.Fatalf("Failed to tag item: %v", err)
				}
			}
			records++
		}
		fmt.Printf("Created %d records for %s\n", records, userID)
	}

	// Bob shares his watchlist with Alice.
	share := domain.LibraryShare{OwnerID: bob, ViewerID: alice, Scope: domain.ShareScopeStatus, ScopeValue: string(domain.StatusWatchlist)}
	if err := s.ShareLibrary(ctx, share); err != nil {
		log.Fatalf("Failed to share library: %v", err)
	}
	if err := s.AcceptLibraryShare(ctx, share); err != nil {
		log.Fatalf("Failed to accept library share: %v", err)
	}

	lists := newListService(s)
	seedLists(ctx, lists, s, alice, bob, mediaIDs)

	fmt.Println("\nSeeding complete!")
}

func newListService(s *sqlite.Store) *service.ListService {
	logger := slog.New(slog.DiscardHandler)
	directory := access.NewDirectory(s, logger)
	res := resolver.New(s, directory, logger)
	return service.NewListService(s, res, directory, validation.New(),
		config.ListsConfig{}, config.PreviewConfig{MaxLimit: 200}, logger)
}

func seedLists(ctx context.Context, lists *service.ListService, s *sqlite.Store, alice, bob string, mediaIDs []string) {
	definitions := []service.CreateListInput{
		{
			Name: "Movie night",
			Type: string(domain.ListTypeManual),
			Pins: []service.PinInput{
				{MediaItemID: mediaIDs[1], Type: string(domain.PinInclude)},
				{MediaItemID: mediaIDs[2], Type: string(domain.PinInclude)},
				{MediaItemID: mediaIDs[0], Type: string(domain.PinInclude)},
			},
		},
		{
			Name:          "Best rated",
			Type:          string(domain.ListTypeSmart),
			Rules:         domain.FilterRules{Status: []string{"watched"}, RatingMin: ptr(3.5)},
			SortBy:        string(domain.SortRating),
			SortDirection: string(domain.Desc),
			ItemLimit:     5,
		},
		{
			Name:  "Up next",
			Type:  string(domain.ListTypeHybrid),
			Rules: domain.FilterRules{Status: []string{"watchlist", "watching"}},
			Pins: []service.PinInput{
				{MediaItemID: mediaIDs[5], Type: string(domain.PinInclude)},
				{MediaItemID: mediaIDs[9], Type: string(domain.PinExclude)},
			},
		},
	}

	for _, def := range definitions {
		list, err := lists.CreateList(ctx, alice, def)
		if err != nil {
			log.Fatalf("Failed to create list %q: %v", def.Name, err)
		}
		fmt.Printf("Created %s list %q (%s)\n", list.Type, list.Name, list.ID)

		// Bob curates Alice's shareable lists with her.
		if list.Type.Shareable() {
			if err := s.InviteCollaborator(ctx, list.ID, bob); err != nil {
				log.Fatalf("Failed to invite collaborator: %v", err)
			}
			if err := s.AcceptCollaborator(ctx, list.ID, bob); err != nil {
				log.Fatalf("Failed to accept collaborator: %v", err)
			}
		}

		items, err := lists.ResolveList(ctx, alice, list.ID, resolver.Options{})
		if err != nil {
			log.Fatalf("Failed to resolve list %q: %v", def.Name, err)
		}
		fmt.Printf("  resolves to %d items\n", len(items))
	}
}

func ptr[T any](v T) *T { return &v }
