package mq

import "go.uber.org/zap"

// Discard is the publisher used when no broker is configured; events are
// only written to the debug log.
type Discard struct {
	log *zap.Logger
}

func NewDiscard(logger *zap.Logger) *Discard { return &Discard{log: logger} }

func (d *Discard) Publish(e Event) {
	if d.log == nil {
		return
	}
	d.log.Debug("activity",
		zap.String("action", e.Action),
		zap.String("owner_id", e.OwnerID),
		zap.String("folder_id", e.Payload.FolderID),
		zap.String("file_id", e.Payload.FileID),
	)
}
