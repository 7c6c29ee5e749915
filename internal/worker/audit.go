// Package worker holds the audit trail consumer: record change messages
// become append-only JSON lines in a log file.
package worker

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"finman/internal/amqp"
	"finman/internal/log"
)

// AuditWriter appends one JSON line per record change. Writes are
// serialized; the file is opened in append mode so restarts extend the
// trail instead of truncating it.
type AuditWriter struct {
	mu     sync.Mutex
	file   *os.File
	logger *log.Logger
}

func NewAuditWriter(path string, logger *log.Logger) (*AuditWriter, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, err
	}
	return &AuditWriter{file: f, logger: logger.WithComponent(log.ComponentWorker)}, nil
}

// HandleChange is the consume handler. Returning an error requeues the
// message, so a full disk does not lose audit entries.
func (w *AuditWriter) HandleChange(msg *amqp.ChangeMessage) error {
	line, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if _, err := w.file.Write(append(line, '\n')); err != nil {
		return err
	}
	w.logger.Debug("Recorded change",
		log.FieldCollection, msg.Collection,
		log.FieldOperation, msg.Op,
		log.FieldRecordID, msg.RecordID)
	return nil
}

func (w *AuditWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.file.Close()
}
