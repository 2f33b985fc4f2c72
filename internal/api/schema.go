package api

import (
	"context"
	"fmt"

	"github.com/graphql-go/graphql"

	"github.com/pfrederiksen/coursecal/internal/course"
)

// CourseResolver answers courseInfo queries.
type CourseResolver interface {
	ResolveCourseInfo(ctx context.Context, year, semester, subject, number string) ([]*course.Course, error)
}

var meetingType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Meeting",
	Fields: graphql.Fields{
		"id":           &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
		"type":         &graphql.Field{Type: graphql.String},
		"isOnline":     &graphql.Field{Type: graphql.Boolean},
		"start":        &graphql.Field{Type: graphql.String},
		"end":          &graphql.Field{Type: graphql.String},
		"daysOfWeek":   &graphql.Field{Type: graphql.String},
		"roomNumber":   &graphql.Field{Type: graphql.String},
		"buildingName": &graphql.Field{Type: graphql.String},
	},
})

var sectionType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Section",
	Fields: graphql.Fields{
		"id":                &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
		"sectionNumber":     &graphql.Field{Type: graphql.String},
		"sectionCode":       &graphql.Field{Type: graphql.String},
		"statusCode":        &graphql.Field{Type: graphql.String},
		"partOfTerm":        &graphql.Field{Type: graphql.String},
		"sectionStatusCode": &graphql.Field{Type: graphql.String},
		"enrollmentStatus":  &graphql.Field{Type: graphql.String},
		"meetings":          &graphql.Field{Type: graphql.NewList(meetingType)},
	},
})

var courseType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Course",
	Fields: graphql.Fields{
		"id":           &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
		"subjectCode":  &graphql.Field{Type: graphql.String},
		"courseNumber": &graphql.Field{Type: graphql.String},
		"label":        &graphql.Field{Type: graphql.String},
		"description":  &graphql.Field{Type: graphql.String},
		"creditHours":  &graphql.Field{Type: graphql.Int},
		"sections":     &graphql.Field{Type: graphql.NewList(sectionType)},
	},
})

// NewSchema builds the executable schema backed by resolver.
func NewSchema(resolver CourseResolver) (graphql.Schema, error) {
	nonNullString := graphql.NewNonNull(graphql.String)

	query := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"courseInfo": &graphql.Field{
				Type:        graphql.NewList(courseType),
				Description: "Courses of a subject in a term, by exact number or level (e.g. 2xx)",
				Args: graphql.FieldConfigArgument{
					"year":         &graphql.ArgumentConfig{Type: nonNullString},
					"semester":     &graphql.ArgumentConfig{Type: nonNullString},
					"subjectCode":  &graphql.ArgumentConfig{Type: nonNullString},
					"courseNumber": &graphql.ArgumentConfig{Type: nonNullString},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					year, _ := p.Args["year"].(string)
					semester, _ := p.Args["semester"].(string)
					subject, _ := p.Args["subjectCode"].(string)
					number, _ := p.Args["courseNumber"].(string)

					courses, err := resolver.ResolveCourseInfo(p.Context, year, semester, subject, number)
					if err != nil {
						return nil, err
					}
					return courses, nil
				},
			},
		},
	})

	schema, err := graphql.NewSchema(graphql.SchemaConfig{Query: query})
	if err != nil {
		return graphql.Schema{}, fmt.Errorf("building schema: %w", err)
	}
	return schema, nil
}
