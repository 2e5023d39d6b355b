package cmd

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
	"github.com/spf13/cobra"

	"ticket-marketplace/internal/services"
	"ticket-marketplace/models"
)

// registerSeedCommand adds a "seed" subcommand that fills an empty
// database with demo accounts, events and reference data. Development
// convenience only; it goes through the same services as the API.
func registerSeedCommand(app *pocketbase.PocketBase, accounts *services.AccountService, events *services.EventService, moderation *services.ModerationService) {
	var organizerCount, userCount int

	command := &cobra.Command{
		Use:   "seed",
		Short: "Populate the database with demo data",
		Run: func(cmd *cobra.Command, args []string) {
			if err := app.Bootstrap(); err != nil {
				log.Fatal(err)
			}
			if err := runSeed(app, accounts, events, moderation, organizerCount, userCount); err != nil {
				log.Fatal(err)
			}
			log.Println("Seed completed")
		},
	}
	command.Flags().IntVar(&organizerCount, "organizers", 3, "number of demo organizers")
	command.Flags().IntVar(&userCount, "users", 10, "number of demo users")

	app.RootCmd.AddCommand(command)
}

func runSeed(app *pocketbase.PocketBase, accounts *services.AccountService, events *services.EventService, moderation *services.ModerationService, organizerCount, userCount int) error {
	ctx := context.Background()
	gofakeit.Seed(0)

	genres, err := seedReference(app, "genres", []string{"Rock", "Pop", "Electronic", "Hip-Hop", "Classical", "Comedy"})
	if err != nil {
		return err
	}
	locations, err := seedLocations(app)
	if err != nil {
		return err
	}

	for i := 0; i < userCount; i++ {
		_, _, err := accounts.Register(ctx, services.RegisterParams{
			Email:    fmt.Sprintf("user%d@example.com", i+1),
			Password: "demo1234!",
			Role:     models.RoleUser,
			Profile: services.ProfileParams{
				FirstName: gofakeit.FirstName(),
				LastName:  gofakeit.LastName(),
				Phone:     gofakeit.Phone(),
				Gender:    gofakeit.RandomString([]string{"male", "female", "other"}),
				BirthYear: gofakeit.Number(1960, 2005),
			},
		})
		if err != nil {
			return err
		}
	}

	for i := 0; i < organizerCount; i++ {
		_, profile, err := accounts.Register(ctx, services.RegisterParams{
			Email:    fmt.Sprintf("organizer%d@example.com", i+1),
			Password: "demo1234!",
			Role:     models.RoleOrganizer,
			Profile: services.ProfileParams{
				OrgName:      gofakeit.Company(),
				ContactEmail: gofakeit.Email(),
				Phone:        gofakeit.Phone(),
				Website:      gofakeit.URL(),
			},
		})
		if err != nil {
			return err
		}
		if _, err := moderation.ApproveOrganizer(ctx, profile.Id); err != nil {
			return err
		}
		// refresh the record so event creation sees the approved status
		profile, err = app.FindRecordById("organizers", profile.Id)
		if err != nil {
			return err
		}

		for j := 0; j < 2; j++ {
			start := time.Now().AddDate(0, 1+j, 0)
			params := services.EventParams{
				Title:       gofakeit.Sentence(4),
				Description: gofakeit.Paragraph(1, 3, 12, " "),
				Venue:       gofakeit.Company() + " Hall",
				LocationID:  gofakeit.RandomString(locations),
				GenreID:     gofakeit.RandomString(genres),
				StartAt:     start,
				EndAt:       start.Add(5 * time.Hour),
				SaleStartAt: time.Now().AddDate(0, 0, -1),
				SaleEndAt:   start,
				Categories: []services.CategoryParams{
					{
						Name: "General",
						Type: "standing",
						TicketTypes: []services.TicketTypeParams{
							{Name: "Early Bird", Price: "29.90", QuantityAvailable: 200, MaxPerOrder: 4},
							{Name: "Regular", Price: "39.90", QuantityAvailable: 500, MaxPerOrder: 6},
						},
					},
					{
						Name: "VIP",
						Type: "seated",
						TicketTypes: []services.TicketTypeParams{
							{Name: "VIP", Price: "99.00", QuantityAvailable: 50, MaxPerOrder: 2},
						},
					},
				},
				Artists: []string{gofakeit.Name(), gofakeit.Name()},
			}

			event, err := events.Create(ctx, profile, params)
			if err != nil {
				return err
			}
			if _, err := moderation.SubmitEvent(ctx, event.Id, profile.Id); err != nil {
				return err
			}
			if _, err := moderation.ApproveEvent(ctx, event.Id); err != nil {
				return err
			}
		}
	}

	return nil
}

func seedReference(app *pocketbase.PocketBase, collectionName string, names []string) ([]string, error) {
	collection, err := app.FindCollectionByNameOrId(collectionName)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(names))
	for _, name := range names {
		record := core.NewRecord(collection)
		record.Set("name", name)
		if err := app.Save(record); err != nil {
			return nil, err
		}
		ids = append(ids, record.Id)
	}
	return ids, nil
}

func seedLocations(app *pocketbase.PocketBase) ([]string, error) {
	collection, err := app.FindCollectionByNameOrId("locations")
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, 4)
	for i := 0; i < 4; i++ {
		record := core.NewRecord(collection)
		record.Set("name", gofakeit.Company()+" Arena")
		record.Set("city", gofakeit.City())
		record.Set("country", gofakeit.Country())
		if err := app.Save(record); err != nil {
			return nil, err
		}
		ids = append(ids, record.Id)
	}
	return ids, nil
}
