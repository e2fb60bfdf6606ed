package graph

import (
	"github.com/graphql-go/graphql"
)

// NewSchema builds the account API schema served at /graphql
func NewSchema(r *Resolver) (graphql.Schema, error) {
	userType := graphql.NewObject(graphql.ObjectConfig{
		Name: "User",
		Fields: graphql.Fields{
			"id":    &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
			"email": &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"name":  &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		},
	})

	addressType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Address",
		Fields: graphql.Fields{
			"id":           &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
			"fullName":     &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"phone":        &graphql.Field{Type: graphql.String},
			"addressLine1": &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"addressLine2": &graphql.Field{Type: graphql.String},
			"city":         &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"state":        &graphql.Field{Type: graphql.String},
			"country":      &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"postalCode":   &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"isDefault":    &graphql.Field{Type: graphql.NewNonNull(graphql.Boolean)},
		},
	})

	addressInputType := graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "AddressInput",
		Fields: graphql.InputObjectConfigFieldMap{
			"fullName":     &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
			"phone":        &graphql.InputObjectFieldConfig{Type: graphql.String},
			"addressLine1": &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
			"addressLine2": &graphql.InputObjectFieldConfig{Type: graphql.String},
			"city":         &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
			"state":        &graphql.InputObjectFieldConfig{Type: graphql.String},
			"country":      &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
			"postalCode":   &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
			"isDefault":    &graphql.InputObjectFieldConfig{Type: graphql.Boolean},
		},
	})

	loginPayloadType := graphql.NewObject(graphql.ObjectConfig{
		Name: "LoginPayload",
		Fields: graphql.Fields{
			"token": &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"user":  &graphql.Field{Type: graphql.NewNonNull(userType)},
		},
	})

	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"me": &graphql.Field{
				Type:    userType,
				Resolve: r.me,
			},
			"userAddresses": &graphql.Field{
				Type:    graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(addressType))),
				Resolve: r.userAddresses,
			},
		},
	})

	mutationType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Mutation",
		Fields: graphql.Fields{
			"login": &graphql.Field{
				Type: graphql.NewNonNull(loginPayloadType),
				Args: graphql.FieldConfigArgument{
					"email":    &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"password": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: r.login,
			},
			"logout": &graphql.Field{
				Type:    graphql.NewNonNull(graphql.Boolean),
				Resolve: r.logout,
			},
			"createAddress": &graphql.Field{
				Type: graphql.NewNonNull(addressType),
				Args: graphql.FieldConfigArgument{
					"userId": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
					"input":  &graphql.ArgumentConfig{Type: graphql.NewNonNull(addressInputType)},
				},
				Resolve: r.createAddress,
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{
		Query:    queryType,
		Mutation: mutationType,
	})
}
