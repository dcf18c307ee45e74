// Package pgdriver connects bitorm to PostgreSQL through pgx.
//
// Every physical connection gets its own BIT/VARBIT codec registration,
// performed once by the pool's AfterConnect hook, so the bitstring types
// decode and encode transparently regardless of the OIDs the server reports.
package pgdriver

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/tinywasm/fmt"

	"github.com/tinywasm/bitorm/bitstring"
)

// introspectQuery makes the server describe its bit string types.
const introspectQuery = "SELECT NULL::BIT, NULL::VARBIT"

// Registration holds the type OIDs a connection was registered with.
type Registration struct {
	BitOID    uint32
	VarbitOID uint32
}

// Register looks up the BIT and VARBIT type OIDs on conn and installs bit
// string codecs for them in the connection's type map. bitstring.Bits and
// bitstring.NullBits are mapped to varbit when pgx has no OID to go by.
//
// Register only touches conn's own type map and may be called again on the
// same connection; later calls overwrite the same entries.
func Register(ctx context.Context, conn *pgx.Conn) (Registration, error) {
	rows, err := conn.Query(ctx, introspectQuery)
	if err != nil {
		return Registration{}, fmt.Err(err, "introspect bit string types")
	}
	fds := rows.FieldDescriptions()
	rows.Close()
	if err := rows.Err(); err != nil {
		return Registration{}, fmt.Err(err, "introspect bit string types")
	}
	if len(fds) != 2 {
		return Registration{}, fmt.Err("introspect bit string types: unexpected column count")
	}

	reg := Registration{BitOID: fds[0].DataTypeOID, VarbitOID: fds[1].DataTypeOID}
	m := conn.TypeMap()
	m.RegisterType(&pgtype.Type{Name: "bit", OID: reg.BitOID, Codec: pgtype.BitsCodec{}})
	m.RegisterType(&pgtype.Type{Name: "varbit", OID: reg.VarbitOID, Codec: pgtype.BitsCodec{}})
	m.RegisterDefaultPgType(bitstring.Bits{}, "varbit")
	m.RegisterDefaultPgType(bitstring.NullBits{}, "varbit")
	return reg, nil
}

// AfterConnect is a pgxpool.Config.AfterConnect hook that calls Register.
func AfterConnect(ctx context.Context, conn *pgx.Conn) error {
	_, err := Register(ctx, conn)
	return err
}
