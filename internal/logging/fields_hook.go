package logging

import (
	"strings"

	"github.com/sirupsen/logrus"
)

const redacted = "[redacted]"

// sensitiveFields are never written out as-is: they carry OAuth secrets.
var sensitiveFields = map[string]struct{}{
	"access_token":  {},
	"refresh_token": {},
	"code":          {},
	"client_secret": {},
	"authorization": {},
}

// FieldsHook stamps every entry with the service and environment and masks
// credential-bearing fields.
type FieldsHook struct {
	service     string
	environment string
}

func NewFieldsHook(service, environment string) *FieldsHook {
	return &FieldsHook{
		service:     service,
		environment: environment,
	}
}

func (h *FieldsHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

func (h *FieldsHook) Fire(entry *logrus.Entry) error {
	if h.service != "" {
		entry.Data["service"] = h.service
	}
	if h.environment != "" {
		entry.Data["env"] = h.environment
	}
	for k := range entry.Data {
		if _, ok := sensitiveFields[strings.ToLower(k)]; ok {
			entry.Data[k] = redacted
		}
	}
	return nil
}
