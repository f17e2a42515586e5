package logger

// Field keys shared by extkit log lines.
const (
	FieldService        = "service"
	FieldComponent      = "component"
	FieldOperation      = "operation"
	FieldError          = "error"
	FieldDuration       = "duration_ms"
	FieldRequestID      = "request_id"
	FieldExtensionPoint = "point"
	FieldFactoryID      = "factory"
	FieldContributor    = "contributor"
	FieldPreferenceKey  = "pref_key"
)

// Fields builds a map[string]interface{} from alternating key-value pairs.
//
//	logger.Info("activated", logger.Fields("point", p, "factory", id))
func Fields(kvs ...interface{}) map[string]interface{} {
	m := make(map[string]interface{}, len(kvs)/2)
	for i := 0; i < len(kvs)-1; i += 2 {
		if key, ok := kvs[i].(string); ok {
			m[key] = kvs[i+1]
		}
	}
	return m
}

// ErrorFields creates fields for an operation that failed.
func ErrorFields(op string, err error) map[string]interface{} {
	return map[string]interface{}{
		FieldOperation: op,
		FieldError:     err.Error(),
	}
}

// FactoryFields creates the fields identifying a factory within an extension point.
func FactoryFields(point, factoryID string) map[string]interface{} {
	return map[string]interface{}{
		FieldExtensionPoint: point,
		FieldFactoryID:      factoryID,
	}
}

// MergeWithError adds an error field to an existing map.
func MergeWithError(fields map[string]interface{}, err error) map[string]interface{} {
	if fields == nil {
		fields = make(map[string]interface{})
	}
	fields[FieldError] = err.Error()
	return fields
}
