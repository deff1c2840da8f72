package parsing

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/jonathan/internship-matcher/internal/llm"
	"github.com/jonathan/internship-matcher/internal/types"
)

// decodeResume reads the completion field by field. Only a completion that is
// not a JSON object at all is an error; wrong-typed fields fall back to empty values.
func decodeResume(raw string) (*types.StructuredResume, error) {
	cleaned := llm.CleanJSONBlock(raw)
	if !gjson.Valid(cleaned) {
		return nil, &Error{
			Kind:  KindInvalidResponse,
			Hint:  "The resume parsing service returned malformed data. Please try again.",
			Cause: fmt.Errorf("completion is not valid JSON: %q", truncate(raw, 120)),
		}
	}
	root := gjson.Parse(cleaned)
	if !root.IsObject() {
		return nil, &Error{
			Kind:  KindInvalidResponse,
			Hint:  "The resume parsing service returned malformed data. Please try again.",
			Cause: fmt.Errorf("completion is a JSON %s, not an object", root.Type),
		}
	}

	resume := &types.StructuredResume{
		Name:           scalar(field(root, "name", "fullName", "full_name")),
		Email:          scalar(field(root, "email")),
		GraduationDate: scalar(field(root, "graduationDate", "graduation_date")),
		Degree:         scalar(field(root, "degree")),
		DegreeLevel:    types.DegreeLevel(strings.ToUpper(scalar(field(root, "degreeLevel", "degree_level")))),
		GPA:            number(field(root, "gpa", "GPA")),
		Skills:         stringList(field(root, "skills")),
		Experience:     experienceList(field(root, "experience")),
		Projects:       projectList(field(root, "projects")),
	}

	if auth := field(root, "workAuthorization", "work_authorization"); auth.Type == gjson.String {
		if parsed, ok := types.ParseWorkAuthorization(auth.Str); ok {
			resume.WorkAuthorization = types.Some(parsed)
		}
	}

	return resume, nil
}

// field returns the first of keys present on obj
func field(obj gjson.Result, keys ...string) gjson.Result {
	for _, key := range keys {
		if res := obj.Get(key); res.Exists() {
			return res
		}
	}
	return gjson.Result{}
}

// scalar renders strings, numbers and booleans as text; anything else is empty
func scalar(res gjson.Result) string {
	switch res.Type {
	case gjson.String:
		return res.Str
	case gjson.Number:
		return res.Raw
	case gjson.True, gjson.False:
		return res.String()
	default:
		return ""
	}
}

// number accepts JSON numbers and numeric strings such as "3.8" or "3.8/4.0"
func number(res gjson.Result) types.Optional[float64] {
	switch res.Type {
	case gjson.Number:
		return types.Some(res.Num)
	case gjson.String:
		text := strings.TrimSpace(res.Str)
		if idx := strings.Index(text, "/"); idx > 0 {
			text = strings.TrimSpace(text[:idx])
		}
		if v, err := strconv.ParseFloat(text, 64); err == nil {
			return types.Some(v)
		}
	}
	return types.None[float64]()
}

// stringList keeps the scalar elements of an array. A non-array yields nil.
func stringList(res gjson.Result) []string {
	if !res.IsArray() {
		return nil
	}
	out := []string{}
	res.ForEach(func(_, item gjson.Result) bool {
		if item.IsObject() {
			item = field(item, "name", "skill")
		}
		if s := scalar(item); s != "" {
			out = append(out, s)
		}
		return true
	})
	return out
}

func experienceList(res gjson.Result) []types.ExperienceEntry {
	if !res.IsArray() {
		return nil
	}
	out := []types.ExperienceEntry{}
	res.ForEach(func(_, item gjson.Result) bool {
		switch {
		case item.IsObject():
			out = append(out, types.ExperienceEntry{
				Company:  scalar(field(item, "company", "organization", "employer")),
				Role:     scalar(field(item, "role", "title", "position")),
				Duration: scalar(field(item, "duration", "dates", "period")),
			})
		case item.Type == gjson.String:
			out = append(out, types.ExperienceEntry{Role: item.Str})
		}
		return true
	})
	return out
}

func projectList(res gjson.Result) []types.ProjectEntry {
	if !res.IsArray() {
		return nil
	}
	out := []types.ProjectEntry{}
	res.ForEach(func(_, item gjson.Result) bool {
		switch {
		case item.IsObject():
			out = append(out, types.ProjectEntry{
				Name:        scalar(field(item, "name", "title")),
				Description: scalar(field(item, "description", "summary")),
				Tech:        stringList(field(item, "tech", "technologies", "stack")),
			})
		case item.Type == gjson.String:
			out = append(out, types.ProjectEntry{Name: item.Str})
		}
		return true
	})
	return out
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
