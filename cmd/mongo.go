package cmd

import (
	"fmt"
	"log"

	"TuneMart/config"
	"TuneMart/db"

	"github.com/spf13/cobra"
)

var mongoCmd = &cobra.Command{
	Use:   "mongo",
	Short: "Test the MongoDB connection",
	Long:  `Connect to the configured MongoDB instance and verify it with a ping.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("Testing MongoDB connection...")

		cfg := config.Load()
		fmt.Printf("MongoDB config: %s, database: %s\n", cfg.MongoURI, cfg.MongoDB)

		client, _, err := db.ConnectMongo(cfg)
		if err != nil {
			log.Fatalf("Failed to connect to MongoDB: %v", err)
		}
		fmt.Println("MongoDB connection successful!")

		if err := db.CloseMongo(client); err != nil {
			log.Printf("Error closing MongoDB connection: %v", err)
		}
		fmt.Println("MongoDB test complete, connection closed.")
	},
}

func init() {
	rootCmd.AddCommand(mongoCmd)
}
