package forms

import (
	"fmt"
	"reflect"
	"strings"
)

type Option struct {
	Value string
	Label string
}

// Field describes one input for rendering.
type Field struct {
	Name     string
	Label    string
	Input    string
	Required bool
	Value    string
	Checked  bool
	Options  []Option
	Error    string
	Hidden   bool
}

// Fields lists the inputs of a form struct in declaration order. Select
// options come from the struct's oneof rule unless choices supplies them.
func Fields(values any, errs FieldErrors, choices map[string][]Option) []Field {
	rv := reflect.Indirect(reflect.ValueOf(values))
	rt := rv.Type()
	byName := make(map[string]string, rt.NumField())
	for i := 0; i < rt.NumField(); i++ {
		name := formName(rt.Field(i))
		byName[name] = fmt.Sprint(rv.Field(i).Interface())
	}

	out := make([]Field, 0, rt.NumField())
	for i := 0; i < rt.NumField(); i++ {
		sf := rt.Field(i)
		name := formName(sf)
		if name == "" {
			continue
		}
		rules := sf.Tag.Get("validate")
		f := Field{
			Name:     name,
			Label:    sf.Tag.Get("label"),
			Input:    sf.Tag.Get("input"),
			Required: strings.Contains(rules, "required"),
			Error:    errs[name],
		}
		if f.Input == "" {
			f.Input = "text"
		}
		fv := rv.Field(i)
		if fv.Kind() == reflect.Bool {
			f.Checked = fv.Bool()
			f.Value = "true"
		} else {
			f.Value = fmt.Sprint(fv.Interface())
		}
		if f.Input == "select" {
			if opts, ok := choices[name]; ok {
				f.Options = opts
			} else {
				f.Options = oneOf(rules)
			}
		}
		if cond := sf.Tag.Get("show"); cond != "" {
			key, want, _ := strings.Cut(cond, "=")
			f.Hidden = byName[key] != want
		}
		out = append(out, f)
	}
	return out
}

func formName(sf reflect.StructField) string {
	name := strings.SplitN(sf.Tag.Get("form"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	return name
}

// oneOf parses the options of a oneof rule, honouring single-quoted values.
func oneOf(rules string) []Option {
	for _, rule := range splitRules(rules) {
		param, ok := strings.CutPrefix(rule, "oneof=")
		if !ok {
			continue
		}
		var opts []Option
		for len(param) > 0 {
			param = strings.TrimLeft(param, " ")
			var v string
			if strings.HasPrefix(param, "'") {
				end := strings.Index(param[1:], "'")
				if end < 0 {
					v, param = param[1:], ""
				} else {
					v, param = param[1:end+1], param[end+2:]
				}
			} else {
				v, param, _ = strings.Cut(param, " ")
			}
			if v != "" {
				opts = append(opts, Option{Value: v, Label: v})
			}
		}
		return opts
	}
	return nil
}

func splitRules(rules string) []string {
	return strings.Split(rules, ",")
}
