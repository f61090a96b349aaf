package validate

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/kaptinlin/jsonschema"
)

//go:embed schemas/*.json
var schemasFS embed.FS

// Compiled request schemas. Compilation happens at startup; a broken
// embedded schema is a programming error, so mustCompile panics.
var (
	DailyPlan  = mustCompile("schemas/daily_plan.json")
	PlanUpdate = mustCompile("schemas/plan_update.json")
	Template   = mustCompile("schemas/template.json")
)

func mustCompile(path string) *jsonschema.Schema {
	data, err := schemasFS.ReadFile(path)
	if err != nil {
		panic(fmt.Sprintf("failed to read schema %s: %v", path, err))
	}

	compiler := jsonschema.NewCompiler()
	schema, err := compiler.Compile(data)
	if err != nil {
		panic(fmt.Sprintf("failed to compile schema %s: %v", path, err))
	}

	return schema
}

// CheckBody validates a decoded JSON body against a schema and returns a
// single aggregated error message on failure.
func CheckBody(schema *jsonschema.Schema, body map[string]interface{}) error {
	result := schema.Validate(body)
	if !result.IsValid() {
		var errorMessages []string
		for field, evalErr := range result.Errors {
			errorMessages = append(errorMessages, fmt.Sprintf("%s: %s", field, evalErr.Error()))
		}
		return fmt.Errorf("request validation failed: %s", strings.Join(errorMessages, "; "))
	}
	return nil
}

// Body is a gin middleware that validates the JSON request body against a
// schema before the handler binds it. The body is restored so downstream
// binding still works.
func Body(schema *jsonschema.Schema) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, err := c.GetRawData()
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"success": false, "error": "failed to read request body"})
			return
		}
		c.Request.Body = io.NopCloser(bytes.NewBuffer(raw))

		var body map[string]interface{}
		if err := json.Unmarshal(raw, &body); err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"success": false, "error": "request body must be a JSON object"})
			return
		}

		if err := CheckBody(schema, body); err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
			return
		}

		c.Next()
	}
}

// QueryParams is a gin middleware that rejects requests missing any of the
// given query parameters.
func QueryParams(required ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var missing []string
		for _, param := range required {
			if c.Query(param) == "" {
				missing = append(missing, param)
			}
		}

		if len(missing) > 0 {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error":   fmt.Sprintf("Missing required query parameters: %s", strings.Join(missing, ", ")),
			})
			return
		}

		c.Next()
	}
}
