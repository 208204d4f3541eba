// Copyright (c) 2025 Atzphere.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and the YAML election
definition.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

# Config Fields

  - Port: Server listen port (default: 3318)
  - DatabaseType: sqlite or postgres (default: sqlite)
  - DatabaseURL: connection string or SQLite file (default: elections.db)
  - ElectionFile: YAML election definition (required unless -serve)
  - NomineesPath: nominee form CSV (required unless -serve)
  - BallotsPath: voting form CSV (required unless -serve)

# CLI Flags

	-p      Server port
	-d      Database URL
	-t      Database type
	-env    Environment file (default: .env)
	-c      Election definition
	-n      Nominee CSV
	-b      Ballot CSV
	-serve  Serve stored runs over HTTP
	-json   Print the report as JSON

# Environment Variables

Flags fall back to environment variables, which may come from the -env file:

	PORT            → -p
	DATABASE_URL    → -d
	DATABASE_TYPE   → -t
	ELECTION_CONFIG → -c
	NOMINEES_CSV    → -n
	BALLOTS_CSV     → -b
	VOC_API_KEY     (membership API key, env only)

CLI flags take precedence over environment variables, and variables already
set in the environment take precedence over the env file.

# Election Definition

	method: pbv
	max_rank: 3
	positions:
	  - {name: President, seats: 1, column: 10}
	  - {name: Trip Coordinator, seats: 2, column: 11}
	joint_tickets:
	  - name: Alice Smith and Bob Jones
	    candidates: [Alice Smith, Bob Jones]
	    positions: [Trip Coordinator]
	referenda:
	  - {position: Archivist, candidate: Carol White, column: 12}
	renames:
	  Trips: Trip Coordinator
	verification:
	  api_url: https://members.example.com/api/member
	  member_id_column: 17
	  student_number_column: 18
	  end_date_column: 1

LoadElectionConfig rejects unknown keys, duplicate positions, and negative
columns. IngestConfig overlays the form layout onto ingest.DefaultConfig and
Specs lists the elections to hold.
*/
package cliparse
