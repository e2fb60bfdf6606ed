package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/graphql-go/graphql"
	"github.com/graphql-go/graphql/language/ast"
	"github.com/graphql-go/graphql/language/parser"
)

// GraphQLRequest is the JSON body of a POST /graphql request
type GraphQLRequest struct {
	Query         string                 `json:"query" binding:"required"`
	Variables     map[string]interface{} `json:"variables"`
	OperationName string                 `json:"operationName"`
}

// knownOperations bounds the operation label of the request metrics
var knownOperations = map[string]bool{
	"Login":         true,
	"Logout":        true,
	"Me":            true,
	"UserAddresses": true,
	"CreateAddress": true,
}

// operationLabel names the operation of a request for metrics
func operationLabel(req *GraphQLRequest) string {
	name := req.OperationName
	if name == "" {
		doc, err := parser.Parse(parser.ParseParams{Source: req.Query})
		if err != nil {
			return "invalid"
		}
		for _, def := range doc.Definitions {
			if op, ok := def.(*ast.OperationDefinition); ok && op.Name != nil {
				name = op.Name.Value
				break
			}
		}
	}
	if knownOperations[name] {
		return name
	}
	return "other"
}

func (s *Server) graphQL(c *gin.Context) {
	start := time.Now()

	var req GraphQLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"errors": []gin.H{{"message": err.Error()}},
		})
		return
	}

	operation := operationLabel(&req)

	result := graphql.Do(graphql.Params{
		Schema:         s.schema,
		RequestString:  req.Query,
		VariableValues: req.Variables,
		OperationName:  req.OperationName,
		Context:        c.Request.Context(),
	})

	status := "ok"
	if result.HasErrors() {
		status = "error"
		s.logger.Debug().Str("operation", operation).Interface("errors", result.Errors).Msg("GraphQL request returned errors")
	}
	s.metrics.requests.WithLabelValues(operation, status).Inc()
	s.metrics.duration.WithLabelValues(operation).Observe(time.Since(start).Seconds())

	c.JSON(http.StatusOK, result)
}
