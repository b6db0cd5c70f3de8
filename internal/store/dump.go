package store

import (
	"bufio"
	"encoding/binary"
	"io"
	"os"
	"time"
)

// dumpRecord is one (key, value, optional expiry) tuple as captured by a
// shard snapshot, ready to be written to or read from the dump file.
type dumpRecord struct {
	key       string
	value     []byte
	expiresAt *time.Time
}

// Dump file format: a 4-byte magic, a 1-byte version, then records until
// EOF. Each record is:
//
//	uint32 keyLen, key bytes,
//	uint32 valueLen, value bytes,
//	int64  expiresAtUnixMilli (0 means no expiration)
//
// This mirrors the teacher's length-prefixed binary framing
// (pkg/protocol.WriteCommand's 4-byte big-endian length header), reused
// here for on-disk records instead of wire frames, and satisfies spec.md
// §6's requirement for a leading magic + version so incompatible dumps
// fail LOAD with ErrBadDumpFormat rather than silently corrupting state.
var dumpMagic = [4]byte{'S', 'S', 'C', 'H'}

const dumpVersion byte = 1

// Save writes every non-expired entry across all shards to the dump file.
// Each shard's lock is held only while that shard's entries are copied
// into memory (spec.md §3 invariant 5, §5: no I/O under a shard lock); the
// snapshot is consequently not a single point-in-time image across shards.
// SAVE is serialized against other SAVE/LOAD calls by dumpMu.
func (st *Store) Save() error {
	st.dumpMu.Lock()
	defer st.dumpMu.Unlock()

	f, err := os.Create(st.dumpPath)
	if err != nil {
		return err
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	if _, err := w.Write(dumpMagic[:]); err != nil {
		return err
	}
	if err := w.WriteByte(dumpVersion); err != nil {
		return err
	}

	now := time.Now()
	for _, s := range st.shards {
		for _, rec := range s.snapshot(now) {
			if err := writeRecord(w, rec); err != nil {
				return err
			}
		}
	}
	return w.Flush()
}

func writeRecord(w io.Writer, rec dumpRecord) error {
	if err := writeLenPrefixed(w, []byte(rec.key)); err != nil {
		return err
	}
	if err := writeLenPrefixed(w, rec.value); err != nil {
		return err
	}
	var expiryMillis int64
	if rec.expiresAt != nil {
		expiryMillis = rec.expiresAt.UnixMilli()
	}
	return binary.Write(w, binary.BigEndian, expiryMillis)
}

func writeLenPrefixed(w io.Writer, data []byte) error {
	if err := binary.Write(w, binary.BigEndian, uint32(len(data))); err != nil {
		return err
	}
	_, err := w.Write(data)
	return err
}

// Load reads the dump file and performs the equivalent of SET for every
// record (with the saved expiry), overwriting any existing in-memory key.
// LOAD does not flush the store first and does not skip existing keys:
// later records win over earlier ones and over whatever was already
// present (spec.md §4.B). LOAD is serialized against SAVE/LOAD by dumpMu.
func (st *Store) Load() error {
	st.dumpMu.Lock()
	defer st.dumpMu.Unlock()

	f, err := os.Open(st.dumpPath)
	if err != nil {
		return err
	}
	defer f.Close()

	r := bufio.NewReader(f)
	var magic [4]byte
	if _, err := io.ReadFull(r, magic[:]); err != nil {
		return ErrBadDumpFormat
	}
	version, err := r.ReadByte()
	if err != nil || magic != dumpMagic || version != dumpVersion {
		return ErrBadDumpFormat
	}

	for {
		rec, err := readRecord(r)
		if err == io.EOF {
			break
		}
		if err != nil {
			return ErrBadDumpFormat
		}
		st.shardFor(rec.key).setFromLoad(rec.key, rec.value, rec.expiresAt)
	}
	return nil
}

func readRecord(r io.Reader) (dumpRecord, error) {
	key, err := readLenPrefixed(r)
	if err != nil {
		return dumpRecord{}, err
	}
	value, err := readLenPrefixed(r)
	if err != nil {
		return dumpRecord{}, err
	}
	var expiryMillis int64
	if err := binary.Read(r, binary.BigEndian, &expiryMillis); err != nil {
		return dumpRecord{}, err
	}

	rec := dumpRecord{key: string(key), value: value}
	if expiryMillis != 0 {
		t := time.UnixMilli(expiryMillis)
		rec.expiresAt = &t
	}
	return rec, nil
}

func readLenPrefixed(r io.Reader) ([]byte, error) {
	var length uint32
	if err := binary.Read(r, binary.BigEndian, &length); err != nil {
		return nil, err
	}
	buf := make([]byte, length)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, err
	}
	return buf, nil
}
