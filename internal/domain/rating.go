package domain

import "math"

// Round1 rounds to one decimal place, halves away from zero (2.25 -> 2.3).
func Round1(x float64) float64 {
	return math.Round(x*10) / 10
}

// RatingAfterRemoval computes a product's aggregate after removing a single
// review with the given rating. The count is decremented and floored at zero;
// when no reviews remain the rating resets to 0, otherwise the removed rating
// is subtracted from the running total and the mean re-rounded.
func RatingAfterRemoval(rating float64, reviewCount, removedRating int) (float64, int) {
	newCount := reviewCount - 1
	if newCount < 0 {
		newCount = 0
	}
	if newCount == 0 {
		return 0, 0
	}
	newRating := Round1((rating*float64(reviewCount) - float64(removedRating)) / float64(newCount))
	return newRating, newCount
}

// RatingFromRatings recomputes the aggregate from scratch over the full set
// of review ratings. Used by the repair operation when the stored aggregate
// has drifted from the live review set.
func RatingFromRatings(ratings []int) (float64, int) {
	if len(ratings) == 0 {
		return 0, 0
	}
	sum := 0
	for _, r := range ratings {
		sum += r
	}
	return Round1(float64(sum) / float64(len(ratings))), len(ratings)
}
