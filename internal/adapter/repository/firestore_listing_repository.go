package repository

import (
	"context"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"adstream/internal/domain/entity"
	"adstream/internal/domain/repository"
	"adstream/pkg/errors"
)

type firestoreListingRepository struct {
	client *firestore.Client
}

func NewFirestoreListingRepository(client *firestore.Client) repository.ListingRepository {
	return &firestoreListingRepository{
		client: client,
	}
}

func (r *firestoreListingRepository) Create(ctx context.Context, listing *entity.Listing) error {
	if listing.ID == "" {
		doc := r.client.Collection("listings").NewDoc()
		listing.ID = doc.ID
	}

	now := time.Now()
	if listing.CreatedAt.IsZero() {
		listing.CreatedAt = now
	}
	listing.UpdatedAt = now

	_, err := r.client.Collection("listings").Doc(listing.ID).Set(ctx, listing)
	if err != nil {
		return errors.Internal("Failed to create listing", err)
	}

	return nil
}

func (r *firestoreListingRepository) GetByID(ctx context.Context, id string) (*entity.Listing, error) {
	doc, err := r.client.Collection("listings").Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("Listing", err)
		}
		return nil, errors.Internal("Failed to get listing", err)
	}

	var listing entity.Listing
	if err := doc.DataTo(&listing); err != nil {
		return nil, errors.Internal("Failed to parse listing data", err)
	}

	if listing.DeletedAt != nil {
		return nil, errors.NotFound("Listing", nil)
	}

	return &listing, nil
}

func (r *firestoreListingRepository) GetBySlug(ctx context.Context, slug string) (*entity.Listing, error) {
	query := r.client.Collection("listings").Where("slug", "==", slug).Limit(1)
	iter := query.Documents(ctx)
	doc, err := iter.Next()

	if err != nil {
		if err == iterator.Done {
			return nil, errors.NotFound("Listing", nil)
		}
		return nil, errors.Internal("Failed to query listing", err)
	}

	var listing entity.Listing
	if err := doc.DataTo(&listing); err != nil {
		return nil, errors.Internal("Failed to parse listing data", err)
	}

	if listing.DeletedAt != nil {
		return nil, errors.NotFound("Listing", nil)
	}

	return &listing, nil
}

// List applies equality filters server-side and the free-text search
// client-side; Firestore has no substring queries.
func (r *firestoreListingRepository) List(ctx context.Context, filter map[string]interface{}, search string, limit, offset int) ([]*entity.Listing, int64, error) {
	query := r.client.Collection("listings").OrderBy("createdAt", firestore.Desc)

	for key, value := range filter {
		query = query.Where(key, "==", value)
	}

	allDocs, err := query.Documents(ctx).GetAll()
	if err != nil {
		return nil, 0, errors.Internal("Failed to query listings", err)
	}

	var matched []*entity.Listing
	search = strings.ToLower(strings.TrimSpace(search))

	for _, doc := range allDocs {
		var listing entity.Listing
		if err := doc.DataTo(&listing); err != nil {
			return nil, 0, errors.Internal("Failed to parse listing data", err)
		}

		if listing.DeletedAt != nil {
			continue
		}

		if search != "" &&
			!strings.Contains(strings.ToLower(listing.Title), search) &&
			!strings.Contains(strings.ToLower(listing.Description), search) {
			continue
		}

		matched = append(matched, &listing)
	}

	total := int64(len(matched))

	if offset > 0 {
		if offset >= len(matched) {
			return nil, total, nil
		}
		matched = matched[offset:]
	}
	if limit > 0 && limit < len(matched) {
		matched = matched[:limit]
	}

	return matched, total, nil
}

func (r *firestoreListingRepository) Update(ctx context.Context, listing *entity.Listing) error {
	listing.UpdatedAt = time.Now()

	_, err := r.client.Collection("listings").Doc(listing.ID).Set(ctx, listing)
	if err != nil {
		return errors.Internal("Failed to update listing", err)
	}

	return nil
}

// Delete is a soft delete so sold or expired ads stay referencable from
// chats and notifications.
func (r *firestoreListingRepository) Delete(ctx context.Context, id string) error {
	now := time.Now()
	_, err := r.client.Collection("listings").Doc(id).Update(ctx, []firestore.Update{
		{Path: "deletedAt", Value: now},
		{Path: "updatedAt", Value: now},
	})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return errors.NotFound("Listing", err)
		}
		return errors.Internal("Failed to delete listing", err)
	}

	return nil
}

func (r *firestoreListingRepository) IncrementViews(ctx context.Context, id string) error {
	_, err := r.client.Collection("listings").Doc(id).Update(ctx, []firestore.Update{
		{Path: "views", Value: firestore.Increment(1)},
	})
	if err != nil {
		return errors.Internal("Failed to increment views", err)
	}

	return nil
}
