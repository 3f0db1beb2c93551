// clientctl manages the API clients (tenants) of the quiz service. Client
// secrets are only printed at creation or regeneration time; they are stored
// hashed and cannot be recovered later.
package main

import (
	"fmt"

	"gopkg.in/alecthomas/kingpin.v2"

	"quizservice/src/core/config"
	"quizservice/src/core/database"
	"quizservice/src/core/logger"
	"quizservice/src/core/store"
	"quizservice/src/modules/clients"
)

var (
	createCmd  = kingpin.Command("create", "Register a new client and print its credentials")
	createName = createCmd.Flag("name", "Display name of the client").Required().String()

	renameCmd  = kingpin.Command("rename", "Change a client's display name")
	renameID   = renameCmd.Flag("id", "Client ID").Required().String()
	renameName = renameCmd.Flag("name", "New display name").Required().String()

	regenerateCmd = kingpin.Command("regenerate", "Replace a client's credentials; the old pair stops working")
	regenerateID  = regenerateCmd.Flag("id", "Client ID").Required().String()

	activateCmd = kingpin.Command("activate", "Allow a client to authenticate again")
	activateID  = activateCmd.Flag("id", "Client ID").Required().String()

	deactivateCmd = kingpin.Command("deactivate", "Block a client from authenticating")
	deactivateID  = deactivateCmd.Flag("id", "Client ID").Required().String()

	deleteCmd = kingpin.Command("delete", "Delete a client and drop all of its quiz data")
	deleteID  = deleteCmd.Flag("id", "Client ID").Required().String()

	listCmd   = kingpin.Command("list", "List registered clients")
	listPage  = listCmd.Flag("page", "Page number").Default("1").Int()
	listLimit = listCmd.Flag("limit", "Clients per page").Default("20").Int()
)

func main() {
	kingpin.UsageTemplate(kingpin.CompactUsageTemplate).Version("0.1")
	kingpin.CommandLine.Help = "Quiz service client management"
	command := kingpin.Parse()

	config.SetupEnv()
	logger.Setup()
	database.ConnectDB()
	defer database.Session.Close()

	service := clients.NewService(store.NewMongoStore(database.DB.C("clients")))

	switch command {
	case "create":
		client, creds, err := service.CreateClient(*createName)
		if err != nil {
			logger.Log.Fatalf("Client creation failed with: %s", err.Error())
		}
		fmt.Printf("id:            %s\n", client.ID)
		fmt.Printf("name:          %s\n", client.Name)
		fmt.Printf("client_id:     %s\n", creds.ClientID)
		fmt.Printf("client_secret: %s\n", creds.ClientSecret)
	case "rename":
		client, err := service.RenameClient(*renameID, *renameName)
		if err != nil {
			logger.Log.Fatalf("Client rename failed with: %s", err.Error())
		}
		fmt.Printf("id:   %s\nname: %s\n", client.ID, client.Name)
	case "regenerate":
		creds, err := service.RegenerateCredentials(*regenerateID)
		if err != nil {
			logger.Log.Fatalf("Credential regeneration failed with: %s", err.Error())
		}
		fmt.Printf("client_id:     %s\n", creds.ClientID)
		fmt.Printf("client_secret: %s\n", creds.ClientSecret)
	case "activate":
		client, err := service.ActivateClient(*activateID)
		if err != nil {
			logger.Log.Fatalf("Client activation failed with: %s", err.Error())
		}
		fmt.Printf("id:     %s\nstatus: %s\n", client.ID, client.Status)
	case "deactivate":
		client, err := service.DeactivateClient(*deactivateID)
		if err != nil {
			logger.Log.Fatalf("Client deactivation failed with: %s", err.Error())
		}
		fmt.Printf("id:     %s\nstatus: %s\n", client.ID, client.Status)
	case "delete":
		registry := store.NewRegistry(store.NewMongoProvider(database.DB))
		if err := registry.DropTenant(*deleteID); err != nil {
			logger.Log.Fatalf("Dropping tenant data failed with: %s", err.Error())
		}
		if err := service.DeleteClient(*deleteID); err != nil {
			logger.Log.Fatalf("Client deletion failed with: %s", err.Error())
		}
		fmt.Printf("deleted %s\n", *deleteID)
	case "list":
		items, totalPages, err := service.RetrieveClients(*listPage, *listLimit)
		if err != nil {
			logger.Log.Fatalf("Client listing failed with: %s", err.Error())
		}
		for _, client := range items {
			fmt.Printf("%s\t%s\t%s\t%s\n", client.ID, client.Status, client.ClientID, client.Name)
		}
		fmt.Printf("page %d of %d\n", *listPage, totalPages)
	default:
		logger.Log.Fatal("Unknown command")
	}
}
