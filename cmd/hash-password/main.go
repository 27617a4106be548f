package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"influencia-backend/utils"

	"github.com/rs/zerolog/log"
)

// Génère ADMIN_PASSWORD_HASH à partir d'un mot de passe passé en argument ou lu sur stdin
func main() {
	password := ""
	if len(os.Args) > 1 {
		password = os.Args[1]
	} else {
		fmt.Fprint(os.Stderr, "Mot de passe admin : ")
		line, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil && line == "" {
			log.Fatal().Err(err).Msg("❌ Lecture du mot de passe impossible")
		}
		password = strings.TrimRight(line, "\r\n")
	}

	if password == "" {
		log.Fatal().Msg("❌ Le mot de passe ne peut pas être vide")
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		log.Fatal().Err(err).Msg("❌ Erreur lors du hachage")
	}

	fmt.Fprintln(os.Stderr, "\n✅ Hash généré. Ajoutez cette ligne dans votre fichier .env:")
	fmt.Println("ADMIN_PASSWORD_HASH=" + hash)
	fmt.Fprintln(os.Stderr, "⚠️  Ne commitez jamais ce fichier .env")
}
