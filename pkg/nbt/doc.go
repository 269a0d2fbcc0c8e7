// Package nbt provides the NBT (Named Binary Tag) codec and its in-memory
// tree model.
//
// NBT is a compact, big-endian, self-describing binary tree. Every entry is a
// (kind, name, payload) triple; containers nest further entries. The format
// is best known from Minecraft world files but is usable for any nested
// structured data.
//
// # Wire Format
//
// A named tag is encoded as:
//
//	[Kind(1)][NameLength(2)][Name][Payload]
//
// Payload layouts by kind:
//   - Byte, Short, Int, Long: signed two's-complement, 1/2/4/8 bytes
//   - Float, Double: IEEE-754, 4/8 bytes
//   - String: unsigned 16-bit byte length followed by UTF-8 bytes
//   - ByteArray, IntArray, LongArray: signed 32-bit count followed by
//     count elements of 1/4/8 bytes
//   - List: element kind (1), signed 32-bit count, then count unnamed
//     payloads of that kind
//   - Compound: named tags until a single End byte (0)
//
// All multi-byte numbers are big-endian. The root of a document is always a
// named Compound; its name is usually empty but is preserved.
//
// # Usage
//
// Decoding and editing a tree:
//
//	tree, err := nbt.Unmarshal(data)
//	if err != nil {
//	    return err
//	}
//
//	// Whole numbers default to Long, decimals to Double
//	if err := tree.Root.Set("Health", 20); err != nil {
//	    return err
//	}
//
//	// Narrow the stored kind afterwards
//	if err := tree.Root.SetKind("Health", nbt.KindShort); err != nil {
//	    return err // ErrKindOverflow if the value does not fit
//	}
//
//	out, err := nbt.Marshal(tree)
//
// # Error Handling
//
// Decode failures are reported as *DecodeError values carrying the byte
// offset of the violation. Use errors.Is against the Err* sentinels
// (ErrInvalidKind, ErrTruncatedStream, ErrDuplicateName, ...) to classify
// them. Mutations that fail (coercion, heterogeneous list insertion) leave
// the tree unmodified.
//
// # Memory
//
// ByteArray, IntArray and LongArray payloads are held in one contiguous
// slice each and are read straight into that slice. Dropping a subtree with
// Compound.Delete or List.RemoveAt releases its storage once no other
// reference remains.
//
// # Thread Safety
//
// Trees are plain in-memory buffers. They are not safe for concurrent
// mutation; callers sharing a tree between goroutines must synchronize.
package nbt
