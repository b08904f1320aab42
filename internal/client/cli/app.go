// Package cli implements the interactive client: a small REPL over the
// server HTTP API with echo-free password input.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/filevault/internal/client/api"
	"github.com/dmitrijs2005/filevault/internal/server/models"
)

type App struct {
	client *api.Client
	reader *bufio.Reader
}

func NewApp(serverURL string) *App {
	return &App{
		client: api.NewClient(serverURL),
		reader: bufio.NewReader(os.Stdin),
	}
}

// Run reads commands until "exit" or EOF.
func (a *App) Run() {

	fmt.Println("Commands: register, login, logout, mkdir, upload, list, get, publish, unpublish, exit")

	for {
		fmt.Print("> ")
		line, err := a.reader.ReadString('\n')
		if err != nil {
			return
		}

		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}

		if fields[0] == "exit" {
			return
		}

		if err := a.dispatch(context.Background(), fields[0], fields[1:]); err != nil {
			fmt.Println(err.Error())
		}
	}
}

func (a *App) dispatch(ctx context.Context, cmd string, args []string) error {
	switch cmd {
	case "register":
		return a.register(ctx)
	case "login":
		return a.login(ctx)
	case "logout":
		return a.client.Logout(ctx)
	case "mkdir":
		return a.mkdir(ctx, args)
	case "upload":
		return a.upload(ctx, args)
	case "list":
		return a.list(ctx, args)
	case "get":
		return a.get(ctx, args)
	default:
		return fmt.Errorf("unknown command: %s", cmd)
	}
}

func (a *App) register(ctx context.Context) error {
	email, err := GetSimpleText(a.reader, "Enter email")
	if err != nil {
		return err
	}

	password, err := GetPassword()
	if err != nil {
		return err
	}

	if err := a.client.Register(ctx, email, string(password)); err != nil {
		return err
	}

	fmt.Println("Success!")
	return nil
}

func (a *App) login(ctx context.Context) error {
	email, err := GetSimpleText(a.reader, "Enter email")
	if err != nil {
		return err
	}

	password, err := GetPassword()
	if err != nil {
		return err
	}

	if err := a.client.Login(ctx, email, string(password)); err != nil {
		return err
	}

	fmt.Println("Logged in")
	return nil
}

func (a *App) mkdir(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: mkdir <name> [parentId]")
	}

	parentID, err := optionalID(args, 1)
	if err != nil {
		return err
	}

	folder, err := a.client.Upload(ctx, args[0], models.TypeFolder, parentID, false, nil)
	if err != nil {
		return err
	}

	fmt.Printf("Created folder %d\n", folder.ID)
	return nil
}

func (a *App) upload(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: upload <path> [parentId]")
	}

	parentID, err := optionalID(args, 1)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}

	file, err := a.client.Upload(ctx, baseName(args[0]), models.TypeFile, parentID, false, data)
	if err != nil {
		return err
	}

	fmt.Printf("Uploaded %s as %d\n", file.Name, file.ID)
	return nil
}

func (a *App) list(ctx context.Context, args []string) error {
	parentID, err := optionalID(args, 0)
	if err != nil {
		return err
	}

	page := 0
	if len(args) > 1 {
		page, err = strconv.Atoi(args[1])
		if err != nil {
			return err
		}
	}

	files, err := a.client.List(ctx, parentID, page)
	if err != nil {
		return err
	}

	for _, f := range files {
		visibility := "private"
		if f.IsPublic {
			visibility = "public"
		}
		fmt.Printf("%d\t%s\t%s\t%s\n", f.ID, f.Type, visibility, f.Name)
	}
	return nil
}

func (a *App) get(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: get <id> [outfile]")
	}

	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return err
	}

	data, err := a.client.Content(ctx, id)
	if err != nil {
		return err
	}

	if len(args) > 1 {
		return os.WriteFile(args[1], data, 0o660)
	}

	_, err = os.Stdout.Write(data)
	return err
}

func optionalID(args []string, pos int) (int64, error) {
	if len(args) <= pos {
		return 0, nil
	}
	return strconv.ParseInt(args[pos], 10, 64)
}

func baseName(path string) string {
	if i := strings.LastIndexAny(path, `/\`); i >= 0 {
		return path[i+1:]
	}
	return path
}
