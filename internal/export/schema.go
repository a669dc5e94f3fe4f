package export

import (
	"github.com/fulmenhq/courseport/internal/diag"
	"github.com/xeipuuv/gojsonschema"
)

// courseSchema is the contract the written import document must satisfy.
const courseSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "title": "Tutor LMS course export",
  "type": "object",
  "required": ["course", "topics", "metadata"],
  "properties": {
    "course": {
      "type": "object",
      "required": ["title", "status"],
      "properties": {
        "title": {"type": "string", "minLength": 1},
        "content": {"type": "string"},
        "status": {"enum": ["publish", "draft", "pending", "private", "trash"]}
      }
    },
    "topics": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["title", "order", "lessons", "quizzes", "assignments"],
        "properties": {
          "title": {"type": "string", "minLength": 1},
          "order": {"type": "integer", "minimum": 0},
          "lessons": {
            "type": "array",
            "items": {
              "type": "object",
              "required": ["title", "status", "order"],
              "properties": {
                "title": {"type": "string"},
                "content": {"type": "string"},
                "status": {"type": "string"},
                "order": {"type": "integer"}
              }
            }
          },
          "quizzes": {
            "type": "array",
            "items": {
              "type": "object",
              "required": ["title", "status", "settings", "questions"],
              "properties": {
                "title": {"type": "string"},
                "settings": {"type": "object"},
                "questions": {
                  "type": "array",
                  "items": {
                    "type": "object",
                    "required": ["title", "type", "marks", "answers"],
                    "properties": {
                      "type": {
                        "enum": [
                          "multiple_choice", "true_false", "fill_in_the_blank",
                          "open_ended", "short_answer", "matching",
                          "image_matching", "image_answering", "ordering"
                        ]
                      },
                      "marks": {"type": "number", "minimum": 0},
                      "answers": {
                        "type": "array",
                        "items": {
                          "type": "object",
                          "required": ["title", "is_correct", "order"],
                          "properties": {
                            "is_correct": {"type": "boolean"},
                            "order": {"type": "integer"}
                          }
                        }
                      }
                    }
                  }
                }
              }
            }
          },
          "assignments": {
            "type": "array",
            "items": {
              "type": "object",
              "required": ["title", "status", "settings"],
              "properties": {
                "settings": {
                  "type": "object",
                  "required": ["total_mark", "pass_mark"],
                  "properties": {
                    "total_mark": {"type": "number", "minimum": 0},
                    "pass_mark": {"type": "number", "minimum": 0}
                  }
                }
              }
            }
          }
        }
      }
    },
    "metadata": {
      "type": "object",
      "required": ["exported_at", "source"],
      "properties": {
        "exported_at": {"type": "string"},
        "source": {"type": "string"}
      }
    }
  }
}`

// verifyDocument checks the written JSON against the export schema. Schema
// violations are errors, not criticals: the document is on disk either way
// and the operator decides whether to use it.
func verifyDocument(data []byte) (bool, diag.List) {
	var diags diag.List

	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(courseSchema),
		gojsonschema.NewBytesLoader(data),
	)
	if err != nil {
		diags = append(diags, diag.New(diag.SeverityError, "SCHEMA_CHECK_ERROR",
			"cannot run schema verification: "+err.Error()))
		return false, diags
	}

	if result.Valid() {
		return true, nil
	}
	for _, desc := range result.Errors() {
		diags = append(diags, diag.New(diag.SeverityError, "SCHEMA_VIOLATION",
			desc.String()).
			WithAction("inspect tutor_course.json before importing"))
	}
	return false, diags
}
