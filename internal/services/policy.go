package services

import "bloghub/internal/models"

// CanMutatePost — правка и удаление поста разрешены владельцу или админу.
func CanMutatePost(actorID string, isAdmin bool, post *models.Post) bool {
	return isAdmin || post.UserID == actorID
}
