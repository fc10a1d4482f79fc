package repository

import "warbler/internal/dbx"

// Manager vends repositories bound to a database handle, which may be the
// pool itself or an open transaction.
type Manager interface {
	Users(db dbx.DBTX) UserRepository
	Messages(db dbx.DBTX) MessageRepository
	Follows(db dbx.DBTX) FollowRepository
	Likes(db dbx.DBTX) LikeRepository
}
