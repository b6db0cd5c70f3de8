// Command client-example is a short, runnable walkthrough of pkg/client
// against a running ssache-server. Trimmed from the teacher's
// cmd/client-example/main.go, which exercised the full multi-type
// CacheMir command set across a multi-node cluster; SSache only has
// GET/SET/EXPIRE/INCR/DECR/SAVE/LOAD/PING, against one address.
package main

import (
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/ssache/ssache/pkg/client"
)

func main() {
	addr := flag.String("addr", "localhost:7777", "ssache server address")
	flag.Parse()

	c, err := client.Dial(*addr)
	if err != nil {
		log.Fatalf("dial %s: %v", *addr, err)
	}
	defer c.Close()

	fmt.Println("=== SSache Client Example ===")

	if err := c.Ping(); err != nil {
		log.Printf("warning: PING failed: %v", err)
	} else {
		fmt.Println("connected to", *addr)
	}

	fmt.Println("\n--- String Operations ---")
	if err := c.Set("user:1", "john_doe"); err != nil {
		log.Printf("SET failed: %v", err)
	} else {
		fmt.Println("SET user:1 = john_doe")
	}
	if value, ok, err := c.Get("user:1"); err != nil {
		log.Printf("GET failed: %v", err)
	} else {
		fmt.Printf("GET user:1 = %q (present=%v)\n", value, ok)
	}

	fmt.Println("\n--- Counter Operations ---")
	for i := 0; i < 2; i++ {
		if value, err := c.Incr("counter"); err != nil {
			log.Printf("INCR failed: %v", err)
		} else {
			fmt.Printf("INCR counter = %d\n", value)
		}
	}
	if value, err := c.Decr("counter"); err != nil {
		log.Printf("DECR failed: %v", err)
	} else {
		fmt.Printf("DECR counter = %d\n", value)
	}

	fmt.Println("\n--- Expiration ---")
	if err := c.Set("temp_key", "temp_value"); err != nil {
		log.Printf("SET failed: %v", err)
	}
	if err := c.Expire("temp_key", int64(5*time.Second/time.Millisecond)); err != nil {
		log.Printf("EXPIRE failed: %v", err)
	} else {
		fmt.Println("EXPIRE temp_key in 5s")
	}

	fmt.Println("\n--- Persistence ---")
	if err := c.Save(); err != nil {
		log.Printf("SAVE failed: %v", err)
	} else {
		fmt.Println("SAVE complete")
	}

	fmt.Println("\n=== Example Complete ===")
}
