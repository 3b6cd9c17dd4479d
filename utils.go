package trackable

import "reflect"

// isNil reports whether v is nil or a typed nil stored in an interface.
func isNil(v interface{}) bool {
	if v == nil {
		return true
	}
	switch reflect.TypeOf(v).Kind() {
	case reflect.Chan, reflect.Func, reflect.Interface, reflect.Map, reflect.Ptr, reflect.Slice:
		if reflect.ValueOf(v).IsNil() {
			return true
		}
	default:
	}
	return false
}
