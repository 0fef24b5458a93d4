// Package main runs the interactive storefront client: browse the
// catalog, manage the cart and wishlist, sign in, and send contact
// messages against the remote REST API.
package main

import (
	"bufio"
	"cmp"
	"context"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"shopfront/internal/api"
	"shopfront/internal/cart"
	"shopfront/internal/catalog"
	"shopfront/internal/config"
	"shopfront/internal/logger"
	"shopfront/internal/models"
	"shopfront/internal/session"
	"shopfront/internal/syncer"
	"shopfront/internal/transport"
	"shopfront/internal/wishlist"
)

var (
	// version holds the build version set via ldflags.
	version string
	// buildDate holds the build timestamp set via ldflags.
	buildDate string
)

func main() {
	// Load .env before flags/env are parsed; missing file is fine.
	_ = godotenv.Load()

	options, err := config.Parse()
	if err != nil {
		fmt.Fprintln(os.Stderr, "invalid configuration:", err)
		os.Exit(1)
	}

	fmt.Printf("shopfront %s (built %s)\n", cmp.Or(version, "dev"), cmp.Or(buildDate, "N/A"))

	log, err := logger.New(options.LogLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, "cannot init logger:", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	storage, err := session.NewFileStorage(options.StateDir)
	if err != nil {
		log.Fatal("cannot open session storage", zap.Error(err))
	}

	// The pipeline and the session store reference each other: the
	// pipeline reads the token and tears the session down on 401.
	// Both sides go through late-bound indirections.
	var sess *session.Store

	pipeline := transport.Chain(nil,
		transport.BearerAuth(transport.TokenSourceFunc(func() string {
			if sess == nil {
				return ""
			}
			return sess.Token()
		})),
		transport.AuthWatch(func() {
			if sess != nil {
				sess.Logout()
				fmt.Println("Session expired. Please log in again.")
			}
		}, log),
	)

	client := api.New(options.APIURL, &http.Client{
		Transport: pipeline,
		Timeout:   options.HTTPTimeout,
	})

	sess = session.NewStore(client, storage, options.AdminEmail, log)
	cartStore := cart.NewStore(client, log)
	wishStore := wishlist.NewStore(client, log)
	cache := catalog.NewCache(client, options.PageSize, 10, log)

	ctx := context.Background()
	unbind := syncer.New(cache, log).Bind(ctx, cartStore)
	defer unbind()

	if err := cache.Reload(ctx); err != nil {
		log.Warn("initial catalog load failed", zap.Error(err))
	}
	if sess.IsAuthenticated() {
		if err := cartStore.Refresh(ctx); err != nil {
			log.Warn("initial cart load failed", zap.Error(err))
		}
	}

	repl(ctx, sess, cartStore, wishStore, cache, client)
}

// repl runs the interactive shell loop.
func repl(ctx context.Context, sess *session.Store, cartStore *cart.Store, wishStore *wishlist.Store, cache *catalog.Cache, client *api.Client) {
	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Print("shopfront> ")
		if !scanner.Scan() {
			break
		}
		args := strings.Fields(strings.TrimSpace(scanner.Text()))
		if len(args) == 0 {
			continue
		}

		switch args[0] {
		case "help":
			printHelp()
		case "register":
			doRegister(ctx, scanner, sess)
		case "login":
			doLogin(ctx, scanner, sess)
		case "logout":
			sess.Logout()
			fmt.Println("Signed out")
		case "whoami":
			if user := sess.CurrentUser(); user != nil {
				role := "customer"
				if sess.IsAdmin() {
					role = "admin"
				}
				fmt.Printf("%s <%s> (%s)\n", user.Username, user.Email, role)
			} else {
				fmt.Println("Not signed in")
			}
		case "products":
			printPage(cache.Page())
		case "filter":
			doFilter(args[1:], cache)
		case "page":
			if len(args) < 2 {
				fmt.Println("Usage: page <number>")
				continue
			}
			n, err := strconv.Atoi(args[1])
			if err != nil || n < 0 {
				fmt.Println("page must be a non-negative number")
				continue
			}
			p := cache.Page()
			cache.SetPage(n*p.Rows, p.Rows)
			printPage(cache.Page())
		case "product":
			if len(args) < 2 {
				fmt.Println("Usage: product <id|code>")
				continue
			}
			doShowProduct(ctx, args[1], client)
		case "cart":
			printCart(cartStore)
		case "add":
			if len(args) < 2 {
				fmt.Println("Usage: add <productId> [quantity]")
				continue
			}
			doAdd(ctx, args[1:], cartStore)
		case "qty":
			if len(args) < 3 {
				fmt.Println("Usage: qty <itemId> <quantity>")
				continue
			}
			doQty(ctx, args[1], args[2], cartStore)
		case "rm":
			if len(args) < 2 {
				fmt.Println("Usage: rm <itemId>")
				continue
			}
			id, err := strconv.ParseInt(args[1], 10, 64)
			if err != nil {
				fmt.Println("itemId must be a number")
				continue
			}
			report(cartStore.Remove(ctx, id))
		case "clear":
			report(cartStore.Clear(ctx))
		case "checkout":
			confirmation, err := cartStore.Checkout(ctx)
			if err != nil {
				printError(err)
				continue
			}
			fmt.Println(confirmation)
		case "wish":
			doWishlist(ctx, args[1:], wishStore)
		case "contact":
			doContact(ctx, scanner, client)
		case "exit":
			fmt.Println("Bye")
			return
		default:
			fmt.Println("Unknown command. Type 'help' for a list of commands.")
		}
	}
}

func printHelp() {
	fmt.Println(`Available commands:
  register | login | logout | whoami
  products                   show the current catalog page
  filter cat <name>          filter by category ('' for all)
  filter price <min> <max>   filter by price range (0 disables a bound)
  filter search <text>       search in name and description
  filter none                drop all filters
  page <n>                   jump to page n
  product <id|code>          show one product
  cart | add <productId> [qty] | qty <itemId> <n> | rm <itemId> | clear | checkout
  wish [add <productId> | rm <itemId> | clear]
  contact                    send a message to the shop
  help | exit`)
}

func doRegister(ctx context.Context, scanner *bufio.Scanner, sess *session.Store) {
	req := models.RegisterRequest{
		Username:  prompt(scanner, "username: "),
		Firstname: prompt(scanner, "first name: "),
		Email:     prompt(scanner, "email: "),
		Password:  prompt(scanner, "password: "),
	}
	user, err := sess.Register(ctx, req)
	if err != nil {
		printError(err)
		return
	}
	fmt.Println("Welcome,", user.Username)
}

func doLogin(ctx context.Context, scanner *bufio.Scanner, sess *session.Store) {
	req := models.LoginRequest{
		Email:    prompt(scanner, "email: "),
		Password: prompt(scanner, "password: "),
	}
	user, err := sess.Login(ctx, req)
	if err != nil {
		printError(err)
		return
	}
	fmt.Println("Welcome back,", user.Username)
}

func doFilter(args []string, cache *catalog.Cache) {
	if len(args) == 0 {
		f := cache.Filter()
		fmt.Printf("category=%q min=%.2f max=%.2f search=%q\n",
			f.Category, f.MinPrice, f.MaxPrice, f.SearchText)
		return
	}
	switch args[0] {
	case "cat":
		category := ""
		if len(args) > 1 {
			category = args[1]
		}
		cache.SetCategory(category)
	case "price":
		if len(args) < 3 {
			fmt.Println("Usage: filter price <min> <max>")
			return
		}
		minPrice, err1 := strconv.ParseFloat(args[1], 64)
		maxPrice, err2 := strconv.ParseFloat(args[2], 64)
		if err1 != nil || err2 != nil {
			fmt.Println("price bounds must be numbers")
			return
		}
		cache.SetPriceRange(minPrice, maxPrice)
	case "search":
		cache.SetSearchText(strings.Join(args[1:], " "))
	case "none":
		cache.SetCategory(catalog.AllCategories)
		cache.SetPriceRange(0, 0)
		cache.SetSearchText("")
	default:
		fmt.Println("Usage: filter [cat|price|search|none]")
		return
	}
	printPage(cache.Page())
}

func doShowProduct(ctx context.Context, ref string, client *api.Client) {
	var p *models.Product
	var err error
	if id, convErr := strconv.ParseInt(ref, 10, 64); convErr == nil {
		p, err = client.GetProduct(ctx, id)
	} else {
		p, err = client.GetProductByCode(ctx, ref)
	}
	if err != nil {
		printError(err)
		return
	}
	fmt.Printf("#%d %s [%s] %.2f — %s (%d in stock, %s)\n%s\n",
		p.ID, p.Name, p.Code, p.Price, p.Category, p.Quantity, p.InventoryStatus, p.Description)
}

func doAdd(ctx context.Context, args []string, cartStore *cart.Store) {
	productID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		fmt.Println("productId must be a number")
		return
	}
	quantity := 1
	if len(args) > 1 {
		quantity, err = strconv.Atoi(args[1])
		if err != nil || quantity < 1 {
			fmt.Println("quantity must be a positive number")
			return
		}
	}
	report(cartStore.Add(ctx, productID, quantity))
}

func doQty(ctx context.Context, itemArg, qtyArg string, cartStore *cart.Store) {
	itemID, err1 := strconv.ParseInt(itemArg, 10, 64)
	quantity, err2 := strconv.Atoi(qtyArg)
	if err1 != nil || err2 != nil || quantity < 1 {
		fmt.Println("Usage: qty <itemId> <quantity>")
		return
	}
	report(cartStore.UpdateQuantity(ctx, itemID, quantity))
}

func doWishlist(ctx context.Context, args []string, wishStore *wishlist.Store) {
	if len(args) == 0 {
		if err := wishStore.Refresh(ctx); err != nil {
			printError(err)
			return
		}
		wl := wishStore.Snapshot()
		if wl == nil || len(wl.Items) == 0 {
			fmt.Println("Wishlist is empty")
			return
		}
		for _, item := range wl.Items {
			fmt.Printf("  [%d] %s — %.2f\n", item.ID, item.Product.Name, item.Product.Price)
		}
		return
	}
	switch args[0] {
	case "add":
		if len(args) < 2 {
			fmt.Println("Usage: wish add <productId>")
			return
		}
		id, err := strconv.ParseInt(args[1], 10, 64)
		if err != nil {
			fmt.Println("productId must be a number")
			return
		}
		report(wishStore.Add(ctx, id))
	case "rm":
		if len(args) < 2 {
			fmt.Println("Usage: wish rm <itemId>")
			return
		}
		id, err := strconv.ParseInt(args[1], 10, 64)
		if err != nil {
			fmt.Println("itemId must be a number")
			return
		}
		report(wishStore.Remove(ctx, id))
	case "clear":
		report(wishStore.Clear(ctx))
	default:
		fmt.Println("Usage: wish [add|rm|clear]")
	}
}

func doContact(ctx context.Context, scanner *bufio.Scanner, client *api.Client) {
	msg := models.ContactMessage{
		Email:   prompt(scanner, "your email: "),
		Message: prompt(scanner, "message: "),
	}
	if err := client.SendContactMessage(ctx, msg); err != nil {
		printError(err)
		return
	}
	fmt.Println("Message sent")
}

func printPage(p catalog.Page) {
	pageNum := 0
	if p.Rows > 0 {
		pageNum = p.First / p.Rows
	}
	fmt.Printf("Page %d — %d product(s) total\n", pageNum, p.TotalRecords)
	for _, product := range p.Items {
		fmt.Printf("  #%-4d %-30s %8.2f  %-12s %s\n",
			product.ID, product.Name, product.Price, product.Category, product.InventoryStatus)
	}
}

func printCart(cartStore *cart.Store) {
	snapshot := cartStore.Snapshot()
	if snapshot == nil || len(snapshot.Items) == 0 {
		fmt.Println("Cart is empty")
		return
	}
	for _, item := range snapshot.Items {
		fmt.Printf("  [%d] %s x%d — %.2f\n",
			item.ID, item.Product.Name, item.Quantity, item.Product.Price*float64(item.Quantity))
	}
	fmt.Printf("%d item(s), total %.2f\n", cartStore.ItemCount(), cartStore.TotalPrice())
}

func prompt(scanner *bufio.Scanner, label string) string {
	fmt.Print(label)
	if !scanner.Scan() {
		return ""
	}
	return strings.TrimSpace(scanner.Text())
}

func report(err error) {
	if err != nil {
		printError(err)
		return
	}
	fmt.Println("OK")
}

func printError(err error) {
	switch {
	case api.IsUnauthorized(err):
		fmt.Println("Please log in first")
	case api.IsForbidden(err):
		fmt.Println("You do not have permission to do that")
	default:
		fmt.Println("Error:", err)
	}
}
