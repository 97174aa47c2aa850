// Command catalog prints the rooms recorded in a catalog directory.
// It opens the store read-only, so it can run next to a live library.
package main

import (
	"context"
	"flag"
	"fmt"
	"im-core/contract"
	"im-core/repositories"
	"io"
	"log"
	"log/slog"
	"os"
	"strconv"

	"github.com/dgraph-io/badger/v4"
	"github.com/joho/godotenv"
	"github.com/olekukonko/tablewriter"
)

func main() {
	_ = godotenv.Load()
	dbPath := flag.String("db", os.Getenv("CATALOG_FILEPATH"), "Path to the room catalog")
	flag.Parse()
	if *dbPath == "" {
		log.Fatal("No catalog given: set CATALOG_FILEPATH or pass -db")
	}

	db, err := badger.Open(badger.DefaultOptions(*dbPath).
		WithReadOnly(true).
		WithBypassLockGuard(true).
		WithLoggingLevel(badger.WARNING))
	if err != nil {
		log.Fatal("Error while opening Badger: ", err)
	}
	defer db.Close()

	rooms, err := repositories.NewRoomRepository(db, slog.Default()).All(context.Background())
	if err != nil {
		log.Fatal("Error while reading catalog: ", err)
	}
	render(os.Stdout, rooms)
}

func render(w io.Writer, rooms []contract.StoredRoom) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Room ID", "Name"})
	table.SetAutoWrapText(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("\t")
	for _, room := range rooms {
		table.Append([]string{strconv.FormatUint(uint64(room.ID), 10), room.Name})
	}
	table.Render()
	fmt.Fprintf(w, "\n%d room(s)\n", len(rooms))
}
