package cmd

import (
	"context"
	"log"

	"github.com/frahmantamala/asset-management/internal/seed"
	"github.com/spf13/cobra"
)

var (
	seedFile  string
	seedClear bool
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample data",
	Long:  `Seed the database with sample users, equipment, accessories and assignments for development and testing purposes.`,
	Run: func(cmd *cobra.Command, args []string) {
		app, err := newApp(configPath)
		if err != nil {
			log.Fatalf("failed to init app: %v", err)
		}
		defer app.Close()

		fixture, err := seed.LoadFile(seedFile)
		if err != nil {
			log.Fatalf("failed to load seed data: %v", err)
		}

		seeder := &seed.Seeder{
			DB:            app.Gorm,
			Users:         app.User,
			UserRepo:      app.UserRepo,
			Equipment:     app.Equipment,
			EquipmentRepo: app.EquipmentRepo,
			Accessories:   app.Accessory,
			Assignments:   app.Assignment,
			Logger:        app.Logger,
		}

		ctx := context.Background()
		if seedClear {
			if err := seeder.Clear(ctx); err != nil {
				log.Fatalf("failed to clear data: %v", err)
			}
		}
		if err := seeder.Run(ctx, fixture); err != nil {
			log.Fatalf("failed to seed data: %v", err)
		}

		app.Logger.Info("seeding completed",
			"usuarios", len(fixture.Users),
			"equipos", len(fixture.Equipment),
			"accesorios", len(fixture.Accessories),
			"asignaciones", len(fixture.Assignments))
	},
}

func init() {
	seedCmd.Flags().StringVarP(&seedFile, "file", "f", "db/seed/seed.yml", "seed fixture file")
	seedCmd.Flags().BoolVar(&seedClear, "clear", false, "delete existing inventory data before seeding")
}
