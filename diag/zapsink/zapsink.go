// Package zapsink renders schema-drift diagnostics as zap log entries.
package zapsink

import (
	"strings"

	"go.uber.org/zap"

	verskema "github.com/reoring/verskema"
	"github.com/reoring/verskema/i18n"
)

// Sink logs every diagnostic at warn level.
type Sink struct {
	log *zap.Logger
	tr  i18n.Translator
}

// New returns a Sink writing to l with messages from tr. A nil l uses
// verskema.Logger(); a nil tr uses English.
func New(l *zap.Logger, tr i18n.Translator) *Sink {
	if l == nil {
		l = verskema.Logger()
	}
	if tr == nil {
		tr = i18n.New("en")
	}
	return &Sink{log: l.Named("diagnostics"), tr: tr}
}

func (s *Sink) Emit(d verskema.Diagnostic) {
	s.log.Warn(Message(s.tr, d),
		zap.Stringer("kind", d.Kind),
		zap.String("record_type", d.RecordType),
		zap.Uint32("archive_version", uint32(d.ArchiveVersion)),
		zap.Uint32("declared_version", uint32(d.DeclaredVersion)),
		zap.Strings("fields", d.Fields))
}

// Message renders d with tr.
func Message(tr i18n.Translator, d verskema.Diagnostic) string {
	return tr.Message(d.Kind.String(), map[string]string{
		"type":     d.RecordType,
		"archive":  d.ArchiveVersion.String(),
		"declared": d.DeclaredVersion.String(),
		"fields":   strings.Join(d.Fields, ", "),
	})
}
