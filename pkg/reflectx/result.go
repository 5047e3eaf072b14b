package reflectx

import "reflect"

// IsRefinedType reports whether value is exactly the type R.
func IsRefinedType[R any](value reflect.Type) bool {
	var toMatch R
	return reflect.TypeOf(toMatch) == value
}

// ResultImplements reports whether any result of the given function
// implements the interface T. Accepts a function value or a reflect.Type.
func ResultImplements[T any](function any) bool {
	if function == nil {
		return false
	}

	var fnType reflect.Type
	switch v := function.(type) {
	case reflect.Type:
		fnType = v
	default:
		fnType = reflect.TypeOf(function)
	}
	if fnType.Kind() != reflect.Func {
		return false
	}

	var zero T
	ifaceType := reflect.TypeOf(&zero).Elem()

	for i := 0; i < fnType.NumOut(); i++ {
		if fnType.Out(i).Implements(ifaceType) {
			return true
		}
	}
	return false
}

// IsZero reports whether v is nil or the zero value for its type.
func IsZero(v any) bool {
	if v == nil {
		return true
	}

	val := reflect.ValueOf(v)
	switch val.Kind() {
	case reflect.Ptr, reflect.Interface:
		if val.IsNil() {
			return true
		}
		return IsZero(val.Elem().Interface())
	}
	return val.IsZero()
}
