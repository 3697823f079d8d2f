package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/graphql-go/graphql"
)

// buildSchema creates the GraphQL schema wired to our services.
func buildSchema(deps *Dependencies) (graphql.Schema, error) {
	regionType := graphql.NewObject(graphql.ObjectConfig{
		Name: "MapRegion",
		Fields: graphql.Fields{
			"latitude":        &graphql.Field{Type: graphql.Float},
			"longitude":       &graphql.Field{Type: graphql.Float},
			"latitude_delta":  &graphql.Field{Type: graphql.Float},
			"longitude_delta": &graphql.Field{Type: graphql.Float},
		},
	})

	markerType := graphql.NewObject(graphql.ObjectConfig{
		Name: "MapMarker",
		Fields: graphql.Fields{
			"id":             &graphql.Field{Type: graphql.String},
			"latitude":       &graphql.Field{Type: graphql.Float},
			"longitude":      &graphql.Field{Type: graphql.Float},
			"title":          &graphql.Field{Type: graphql.String},
			"is_destination": &graphql.Field{Type: graphql.Boolean},
			"distance_m":     &graphql.Field{Type: graphql.Float},
		},
	})

	tripMapType := graphql.NewObject(graphql.ObjectConfig{
		Name: "TripMap",
		Fields: graphql.Fields{
			"trip_id": &graphql.Field{Type: graphql.String},
			"region":  &graphql.Field{Type: regionType},
			"markers": &graphql.Field{Type: graphql.NewList(markerType)},
			"status":  &graphql.Field{Type: graphql.String},
		},
	})

	tripType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Trip",
		Fields: graphql.Fields{
			"id":          &graphql.Field{Type: graphql.String},
			"name":        &graphql.Field{Type: graphql.String},
			"destination": &graphql.Field{Type: graphql.String},
			"start_date":  &graphql.Field{Type: graphql.DateTime},
			"end_date":    &graphql.Field{Type: graphql.DateTime},
			"notes":       &graphql.Field{Type: graphql.String},
		},
	})

	reservationType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Reservation",
		Fields: graphql.Fields{
			"id":                &graphql.Field{Type: graphql.String},
			"trip_id":           &graphql.Field{Type: graphql.String},
			"kind":              &graphql.Field{Type: graphql.String},
			"title":             &graphql.Field{Type: graphql.String},
			"address":           &graphql.Field{Type: graphql.String},
			"confirmation_code": &graphql.Field{Type: graphql.String},
			"starts_at":         &graphql.Field{Type: graphql.DateTime},
		},
	})

	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"trips": &graphql.Field{
				Type:        graphql.NewList(tripType),
				Description: "List all trips",
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return deps.Trips.List(p.Context)
				},
			},
			"trip": &graphql.Field{
				Type:        tripType,
				Description: "Get a trip by ID",
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					id := p.Args["id"].(string)
					return deps.Trips.GetByID(p.Context, id)
				},
			},
			"reservations": &graphql.Field{
				Type:        graphql.NewList(reservationType),
				Description: "List a trip's reservations",
				Args: graphql.FieldConfigArgument{
					"trip_id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					tripID := p.Args["trip_id"].(string)
					return deps.Reservations.ListByTrip(p.Context, tripID)
				},
			},
			"tripMap": &graphql.Field{
				Type:        tripMapType,
				Description: "Resolve a trip's locations into map markers and a viewport",
				Args: graphql.FieldConfigArgument{
					"trip_id":          &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"destination_only": &graphql.ArgumentConfig{Type: graphql.Boolean, DefaultValue: false},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					tripID := p.Args["trip_id"].(string)
					destOnly := p.Args["destination_only"].(bool)
					return deps.TripMaps.Resolve(p.Context, tripID, destOnly)
				},
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{
		Query: queryType,
	})
}

// GraphQLHandler serves the GraphQL endpoint.
func GraphQLHandler(deps *Dependencies) fiber.Handler {
	schema, err := buildSchema(deps)
	if err != nil {
		// This would be a programming error in the schema definition
		panic("graphql schema build: " + err.Error())
	}

	type gqlRequest struct {
		Query         string                 `json:"query"`
		OperationName string                 `json:"operationName"`
		Variables     map[string]interface{} `json:"variables"`
	}

	return func(c *fiber.Ctx) error {
		var req gqlRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "invalid request body"})
		}

		result := graphql.Do(graphql.Params{
			Schema:         schema,
			RequestString:  req.Query,
			VariableValues: req.Variables,
			OperationName:  req.OperationName,
			Context:        c.Context(),
		})

		return c.JSON(result)
	}
}
