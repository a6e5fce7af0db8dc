package modal

import (
	"time"

	"backend-trailhub/internal/store"
)

// NewCelebration opens the share card shown once every trail challenge is
// done.
func NewCelebration(api PostAPI, userID, author string, completed, total int, timeout time.Duration) *Share {
	return NewShare(api, ShareInput{
		Kind:      store.PostAchievement,
		UserID:    userID,
		Author:    author,
		Location:  "Trail Challenge",
		Completed: completed,
		Total:     total,
	}, timeout)
}

// CompletionShare offers a just finished check-in for the community feed.
func CompletionShare(api PostAPI, c Completion, p store.Pin, author string, timeout time.Duration) *Share {
	return NewShare(api, ShareInput{
		Kind:     store.PostCompletion,
		UserID:   c.Result.User.ID,
		Author:   author,
		Location: p.Name,
		PinID:    c.PinID,
		PhotoURL: c.PhotoURL,
	}, timeout)
}
