package main

import (
	"encoding/hex"
	"fmt"
	"os"
	"strings"

	"github.com/andrasnagy-data/peliculas/internal/shared/password"
)

func main() {
	if len(os.Args) < 3 {
		fmt.Println("Usage: go run cmd/hash/main.go <username> <password>")
		os.Exit(1)
	}

	username, pw := strings.ToLower(strings.TrimSpace(os.Args[1])), os.Args[2]
	salt, err := password.NewSalt()
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	hash := password.Hash(pw, salt)

	fmt.Printf("Salt: %x\n", salt)
	fmt.Printf("Hash: %x\n", hash)
	fmt.Printf("\nSeed the users table with:\n")
	fmt.Printf("INSERT INTO users (username, password_hash, salt) VALUES ('%s', '\\x%s', '\\x%s');\n",
		username, hex.EncodeToString(hash), hex.EncodeToString(salt))
}
