package app

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReviews(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	alice := f.register(t, "alice", "alice@x.com", "secret1")
	bob := f.register(t, "bob", "bob@x.com", "secret2")
	cafe, err := f.cafe.Create(ctx, alice.ID, CafeInput{Name: "Joe's", Location: "Downtown", CoffeePrice: "3.50"})
	require.NoError(t, err)

	t.Run("validation", func(t *testing.T) {
		_, err := f.review.Add(ctx, AddReviewInput{CafeID: cafe.ID, UserID: bob.ID, Rating: 0, Content: "ok"})
		assert.ErrorIs(t, err, ErrInvalidRating)
		_, err = f.review.Add(ctx, AddReviewInput{CafeID: cafe.ID, UserID: bob.ID, Rating: 6, Content: "ok"})
		assert.ErrorIs(t, err, ErrInvalidRating)
		_, err = f.review.Add(ctx, AddReviewInput{CafeID: cafe.ID, UserID: bob.ID, Rating: 3, Content: "   "})
		assert.ErrorIs(t, err, ErrReviewContent)
		_, err = f.review.Add(ctx, AddReviewInput{CafeID: cafe.ID, UserID: bob.ID, Rating: 3, Content: strings.Repeat("a", MaxReviewLength+1)})
		assert.ErrorIs(t, err, ErrReviewContent)
		_, err = f.review.Add(ctx, AddReviewInput{CafeID: 404, UserID: bob.ID, Rating: 3, Content: "ok"})
		assert.ErrorIs(t, err, ErrCafeNotFound)
	})

	_, err = f.review.Add(ctx, AddReviewInput{CafeID: cafe.ID, UserID: bob.ID, Rating: 4, Content: " Good flat white "})
	require.NoError(t, err)
	_, err = f.review.Add(ctx, AddReviewInput{CafeID: cafe.ID, UserID: alice.ID, Rating: 5, Content: "My own place"})
	require.NoError(t, err)

	got, err := f.review.ListForCafe(ctx, cafe.ID)
	require.NoError(t, err)
	require.Len(t, got.Reviews, 2)
	assert.EqualValues(t, 2, got.Summary.Count)
	assert.InDelta(t, 4.5, got.Summary.Average, 0.001)

	var contents []string
	for _, r := range got.Reviews {
		contents = append(contents, r.Content)
	}
	assert.Contains(t, contents, "Good flat white")
}
