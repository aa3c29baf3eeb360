package domain

import (
	"time"
)

// SessionMedia stores metadata about a file a client attached to a logged
// session, typically a form-check video. The file itself lives in S3.
type SessionMedia struct {
	ID          string    `bson:"_id" json:"id"`
	SessionID   string    `bson:"sessionId" json:"sessionId"`
	ClientID    string    `bson:"clientId" json:"clientId"`
	ObjectKey   string    `bson:"objectKey" json:"-"` // internal use
	FileName    string    `bson:"fileName" json:"fileName"`
	ContentType string    `bson:"contentType" json:"contentType"`
	Size        int64     `bson:"size" json:"size"`
	UploadedAt  time.Time `bson:"uploadedAt" json:"uploadedAt"`
}
