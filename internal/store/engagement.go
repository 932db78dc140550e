package store

import (
	"github.com/MrMEEE/yseal/internal/models"
)

// CastVote records a user's vote on a policy. Re-voting overwrites the
// existing row; the (user, policy) pair is unique.
func (s *Store) CastVote(userID, policyID int64, value int, comment string) error {
	_, err := s.DB.Exec(`INSERT INTO votes (user_id, policy_id, value, comment) VALUES (?, ?, ?, ?)
		ON CONFLICT(user_id, policy_id) DO UPDATE SET value = excluded.value, comment = excluded.comment, updated_at = CURRENT_TIMESTAMP`,
		userID, policyID, value, comment)
	return err
}

// GetVote returns a user's vote on a policy, if any.
func (s *Store) GetVote(userID, policyID int64) (*models.Vote, error) {
	var v models.Vote
	if err := s.DB.Get(&v, `SELECT id, user_id, policy_id, value, comment, created_at, updated_at FROM votes WHERE user_id = ? AND policy_id = ?`, userID, policyID); err != nil {
		return nil, notFound(err)
	}
	return &v, nil
}

// VoteScore sums a policy's votes.
func (s *Store) VoteScore(policyID int64) (int64, error) {
	var n int64
	err := s.DB.Get(&n, `SELECT COALESCE(SUM(value), 0) FROM votes WHERE policy_id = ?`, policyID)
	return n, err
}

// Rate records a user's star rating for a policy, overwriting any prior one.
func (s *Store) Rate(userID, policyID int64, score int, review string) error {
	_, err := s.DB.Exec(`INSERT INTO ratings (user_id, policy_id, score, review) VALUES (?, ?, ?, ?)
		ON CONFLICT(user_id, policy_id) DO UPDATE SET score = excluded.score, review = excluded.review, updated_at = CURRENT_TIMESTAMP`,
		userID, policyID, score, review)
	return err
}

// GetRating returns a user's rating of a policy, if any.
func (s *Store) GetRating(userID, policyID int64) (*models.Rating, error) {
	var r models.Rating
	if err := s.DB.Get(&r, ratingSelect+` WHERE r.user_id = ? AND r.policy_id = ?`, userID, policyID); err != nil {
		return nil, notFound(err)
	}
	return &r, nil
}

func (s *Store) GetRatingByID(id int64) (*models.Rating, error) {
	var r models.Rating
	if err := s.DB.Get(&r, ratingSelect+` WHERE r.id = ?`, id); err != nil {
		return nil, notFound(err)
	}
	return &r, nil
}

// helpful_count is derived from rating_helpfulness rows at read time.
const ratingSelect = `SELECT r.id, r.user_id, r.policy_id, r.score, r.review, r.created_at, r.updated_at, u.username,
	(SELECT COUNT(*) FROM rating_helpfulness rh WHERE rh.rating_id = r.id AND rh.is_helpful = 1) AS helpful_count
	FROM ratings r JOIN users u ON u.id = r.user_id`

// ListRatings returns ratings newest first, optionally scoped to a policy
// (policyID == 0 means all).
func (s *Store) ListRatings(policyID int64, limit, offset int) ([]models.Rating, int64, error) {
	var total int64
	var rs []models.Rating
	if policyID != 0 {
		if err := s.DB.Get(&total, `SELECT COUNT(*) FROM ratings WHERE policy_id = ?`, policyID); err != nil {
			return nil, 0, err
		}
		if err := s.DB.Select(&rs, ratingSelect+` WHERE r.policy_id = ? ORDER BY r.created_at DESC, r.id DESC LIMIT ? OFFSET ?`, policyID, limit, offset); err != nil {
			return nil, 0, err
		}
		return rs, total, nil
	}
	if err := s.DB.Get(&total, `SELECT COUNT(*) FROM ratings`); err != nil {
		return nil, 0, err
	}
	if err := s.DB.Select(&rs, ratingSelect+` ORDER BY r.created_at DESC, r.id DESC LIMIT ? OFFSET ?`, limit, offset); err != nil {
		return nil, 0, err
	}
	return rs, total, nil
}

// MarkRatingHelpful records a user's helpfulness judgment on a rating,
// overwriting any prior judgment by the same user.
func (s *Store) MarkRatingHelpful(userID, ratingID int64, helpful bool) error {
	_, err := s.DB.Exec(`INSERT INTO rating_helpfulness (user_id, rating_id, is_helpful) VALUES (?, ?, ?)
		ON CONFLICT(user_id, rating_id) DO UPDATE SET is_helpful = excluded.is_helpful`,
		userID, ratingID, helpful)
	return err
}
