/*
 *    Copyright 2025 Jeff Galyan
 *
 *    Licensed under the Apache License, Version 2.0 (the "License");
 *    you may not use this file except in compliance with the License.
 *    You may obtain a copy of the License at
 *
 *        http://www.apache.org/licenses/LICENSE-2.0
 *
 *    Unless required by applicable law or agreed to in writing, software
 *    distributed under the License is distributed on an "AS IS" BASIS,
 *    WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 *    See the License for the specific language governing permissions and
 *    limitations under the License.
 */

package syllabus

import (
	"errors"
	"fmt"
	"net/url"
	"reflect"
	"strconv"
)

// EncodeQuery builds query parameters from a struct using `query` struct tags.
// src must be a struct or a non-nil pointer to one. Zero values are omitted
// so the backend applies its own defaults.
func EncodeQuery(src any) (url.Values, error) {
	rv := reflect.ValueOf(src)
	if rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			return nil, errors.New("syllabus: query source must be a non-nil pointer to a struct")
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return nil, errors.New("syllabus: query source must be a struct")
	}

	vals := url.Values{}
	rt := rv.Type()
	for i := 0; i < rt.NumField(); i++ {
		field := rt.Field(i)
		tag := field.Tag.Get("query")
		if tag == "" || tag == "-" || !field.IsExported() {
			continue
		}
		fv := rv.Field(i)
		if fv.IsZero() {
			continue
		}
		s, err := formatField(fv)
		if err != nil {
			return nil, fmt.Errorf("syllabus: field %s: %w", field.Name, err)
		}
		vals.Set(tag, s)
	}
	return vals, nil
}

func formatField(fv reflect.Value) (string, error) {
	switch fv.Kind() {
	case reflect.String:
		return fv.String(), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(fv.Int(), 10), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(fv.Uint(), 10), nil
	case reflect.Float32, reflect.Float64:
		return strconv.FormatFloat(fv.Float(), 'f', -1, 64), nil
	case reflect.Bool:
		return strconv.FormatBool(fv.Bool()), nil
	}
	return "", fmt.Errorf("unsupported kind %s", fv.Kind())
}
