package services

import (
	"errors"

	"goddit/internal/db"
	"goddit/internal/models"

	"gorm.io/gorm"
)

var (
	// ErrVoteNotFound is returned when a removal (value 0) is requested
	// but the user has no vote on the target.
	ErrVoteNotFound = errors.New("vote not found")
	// ErrBadVoteValue is returned for values outside {-1, 0, 1}.
	ErrBadVoteValue = errors.New("value must be -1, 0 or 1")
)

// ReconcileVote applies the requested vote value for one user against a
// post, or against one of its comments when comment is non-nil.
//
// The state transition is: no existing vote and value 0 fails with
// ErrVoteNotFound; no existing vote and ±1 inserts; value 0 deletes the
// existing row; a differing value updates it; a matching value is a
// no-op. The lookup and write run in one transaction, and the unique
// (user, target) index turns a concurrent duplicate insert into an
// error instead of a second row.
func ReconcileVote(userID uint, post *models.Post, comment *models.Comment, value int) error {
	if value != -1 && value != 0 && value != 1 {
		return ErrBadVoteValue
	}

	return db.DB.Transaction(func(tx *gorm.DB) error {
		q := tx.Where("user_id = ?", userID)
		if comment != nil {
			q = q.Where("comment_id = ?", comment.ID)
		} else {
			q = q.Where("post_id = ?", post.ID)
		}

		var existing models.Vote
		err := q.First(&existing).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			if value == 0 {
				return ErrVoteNotFound
			}
			vote := models.Vote{UserID: userID, Value: value}
			if comment != nil {
				vote.CommentID = &comment.ID
			} else {
				vote.PostID = &post.ID
			}
			return tx.Create(&vote).Error
		case err != nil:
			return err
		case value == 0:
			return tx.Delete(&existing).Error
		case existing.Value != value:
			return tx.Model(&existing).Update("value", value).Error
		}
		// matching value resubmitted, nothing to change
		return nil
	})
}
