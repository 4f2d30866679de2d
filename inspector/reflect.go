package inspector

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// Widget selects how a field is drawn.
type Widget int

const (
	WidgetAuto Widget = iota
	WidgetLabel
	WidgetBar
	WidgetAngle
	WidgetBool
	WidgetSkip
)

var widgetNames = map[string]Widget{
	"label": WidgetLabel,
	"bar":   WidgetBar,
	"angle": WidgetAngle,
	"bool":  WidgetBool,
	"skip":  WidgetSkip,
}

// Hint is a parsed inspect tag. The tag is a widget name followed by
// optional key:value pairs:
//
//	`inspect:"bar,maxfield:BaseHealth"`
//	`inspect:"bar,max:200"`
//	`inspect:"label,fmt:%.3f"`
type Hint struct {
	Widget   Widget
	Format   string  // fmt verb for labels
	Max      float64 // fixed bar maximum
	MaxField string  // sibling field holding the bar maximum
}

// ParseTag reads an inspect tag. Unknown widget names and keys are ignored.
func ParseTag(tag string) Hint {
	var h Hint
	if tag == "" {
		return h
	}
	name, rest, _ := strings.Cut(tag, ",")
	h.Widget = widgetNames[strings.TrimSpace(name)]

	for _, opt := range strings.Split(rest, ",") {
		key, val, ok := strings.Cut(strings.TrimSpace(opt), ":")
		if !ok {
			continue
		}
		switch key {
		case "fmt":
			h.Format = val
		case "maxfield":
			h.MaxField = val
		case "max":
			if m, err := strconv.ParseFloat(val, 64); err == nil {
				h.Max = m
			}
		}
	}
	return h
}

// Field is one exported component field ready to draw.
type Field struct {
	Name   string
	Value  any
	Widget Widget
	Format string
	Max    float64 // bar maximum, 1 when the tag gives none
}

// ExtractFields lists the drawable fields of a component struct or a
// pointer to one. Collections and funcs are left out.
func ExtractFields(component any) []Field {
	v := reflect.Indirect(reflect.ValueOf(component))
	if v.Kind() != reflect.Struct {
		return nil
	}

	t := v.Type()
	var fields []Field
	for i := range t.NumField() {
		sf := t.Field(i)
		if !sf.IsExported() || sf.Anonymous {
			continue
		}
		fv := v.Field(i)
		hint := ParseTag(sf.Tag.Get("inspect"))
		w := hint.Widget
		if w == WidgetAuto {
			w = defaultWidget(fv.Kind())
		}
		if w == WidgetSkip {
			continue
		}

		f := Field{Name: sf.Name, Value: fv.Interface(), Widget: w, Format: hint.Format}
		if w == WidgetBar {
			f.Max = barMax(v, hint)
		}
		fields = append(fields, f)
	}
	return fields
}

func defaultWidget(k reflect.Kind) Widget {
	switch k {
	case reflect.Bool:
		return WidgetBool
	case reflect.Array, reflect.Slice, reflect.Map, reflect.Func, reflect.Chan, reflect.Interface:
		return WidgetSkip
	}
	return WidgetLabel
}

func barMax(owner reflect.Value, h Hint) float64 {
	if h.MaxField != "" {
		if mf := owner.FieldByName(h.MaxField); mf.IsValid() {
			if m, ok := FloatValue(mf.Interface()); ok && m > 0 {
				return m
			}
		}
	}
	if h.Max > 0 {
		return h.Max
	}
	return 1
}

// FormatValue renders a field value as text. Named enums print through
// their String method; floats get two decimals unless format says otherwise.
func FormatValue(value any, format string) string {
	if format != "" {
		return fmt.Sprintf(format, value)
	}
	if s, ok := value.(fmt.Stringer); ok {
		return s.String()
	}
	if f, ok := value.(float64); ok {
		return strconv.FormatFloat(f, 'f', 2, 64)
	}
	if f, ok := value.(float32); ok {
		return strconv.FormatFloat(float64(f), 'f', 2, 32)
	}
	return fmt.Sprint(value)
}

// FloatValue converts any numeric value to float64.
func FloatValue(value any) (float64, bool) {
	v := reflect.ValueOf(value)
	switch {
	case v.CanFloat():
		return v.Float(), true
	case v.CanInt():
		return float64(v.Int()), true
	case v.CanUint():
		return float64(v.Uint()), true
	}
	return 0, false
}
