package storage_test

import (
	"context"
	"errors"
	"strings"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
	"github.com/tidwall/gjson"

	"github.com/luma/ldds/dcp"
	"github.com/luma/ldds/storage"
)

const record = "A081B07E24204153353G30-0NN096WUB00012`BST@KZ@KZh "

func recordFrom(address string) dcp.Record {
	return dcp.Record(strings.Replace(record, "A081B07E", address, 1))
}

// recordAt is recordFrom with its time field (YYDDDHHMMSS) replaced.
func recordAt(address, stamp string) dcp.Record {
	return dcp.Record(strings.Replace(string(recordFrom(address)), "24204153353", stamp, 1))
}

var _ = Describe("storage / InmemoryStore", func() {
	Describe("Close()", func() {
		It("does not panic when closed twice", func() {
			store := storage.NewInmemoryStore()
			defer store.Close()

			Expect(func() { store.Close() }).NotTo(Panic())
			Expect(func() { store.Close() }).NotTo(Panic())
		})

		It("closes update channels", func() {
			store := storage.NewInmemoryStore()
			updateChan := store.ListenToUpdates()

			Expect(store.Close()).To(Succeed())
			_, ok := <-updateChan
			Expect(ok).To(BeFalse())
		})

		It("refuses records once closed", func() {
			store := storage.NewInmemoryStore()
			Expect(store.Close()).To(Succeed())

			Expect(store.Append(context.Background(), recordFrom("CE31D030"))).NotTo(Succeed())
		})
	})

	It("an empty inmemory store equals {}", func() {
		store := storage.NewInmemoryStore()
		defer store.Close()

		value, err := store.Backup()
		Expect(err).To(Succeed())
		Expect(string(value)).To(Equal(`{}`))
	})

	Describe("Append() / Get()", func() {
		It("summarizes records per address", func() {
			store := storage.NewInmemoryStore()
			defer store.Close()

			ctx := context.Background()
			Expect(store.Append(ctx, recordAt("CE31D030", "24204150000"))).To(Succeed())
			Expect(store.Append(ctx, recordFrom("CE31D030"))).To(Succeed())
			Expect(store.Append(ctx, recordFrom("CE31D031"))).To(Succeed())

			summary, err := store.Get(ctx, "CE31D030")
			Expect(err).To(Succeed())
			Expect(gjson.GetBytes(summary, "count").Int()).To(Equal(int64(2)))
			Expect(gjson.GetBytes(summary, "channel").Int()).To(Equal(int64(96)))
			Expect(gjson.GetBytes(summary, "failureCode").String()).To(Equal("G"))
			Expect(gjson.GetBytes(summary, "time").String()).To(Equal("2024-07-22T15:33:53Z"))
			Expect(gjson.GetBytes(summary, "last").String()).To(Equal(string(recordFrom("CE31D030").Header())))

			backup, err := store.Backup()
			Expect(err).To(Succeed())
			Expect(gjson.GetBytes(backup, "CE31D031.count").Int()).To(Equal(int64(1)))
		})

		It("returns ErrNotFound for unknown addresses", func() {
			store := storage.NewInmemoryStore()
			defer store.Close()

			_, err := store.Get(context.Background(), "CE31D030")
			Expect(errors.Is(err, storage.ErrNotFound)).To(BeTrue())
		})

		It("keeps records in order, and copies them", func() {
			store := storage.NewInmemoryStore()
			defer store.Close()

			r := recordFrom("CE31D030")
			Expect(store.Append(context.Background(), r)).To(Succeed())
			Expect(store.Append(context.Background(), recordFrom("CE31D031"))).To(Succeed())
			r[0] = 'X'

			all := store.Records("")
			Expect(all).To(HaveLen(2))
			Expect(all[0].Address()).To(Equal("CE31D030"))
			Expect(all[1].Address()).To(Equal("CE31D031"))

			Expect(store.Records("CE31D031")).To(HaveLen(1))
			Expect(store.Records("FFFFFFFF")).To(BeEmpty())
		})

		It("sends on the update channel when records are appended", func() {
			store := storage.NewInmemoryStore()
			defer store.Close()

			updateChan := store.ListenToUpdates()
			Expect(store.Append(context.Background(), recordFrom("CE31D030"))).To(Succeed())

			update, ok := <-updateChan
			Expect(ok).To(BeTrue())
			Expect(update.Address).To(Equal("CE31D030"))
			Expect(update.Record).To(Equal(recordFrom("CE31D030")))
		})
	})

	Describe("repeated and old records", func() {
		It("drops records it already keeps", func() {
			store := storage.NewInmemoryStore()
			defer store.Close()

			updateChan := store.ListenToUpdates()
			ctx := context.Background()
			Expect(store.Append(ctx, recordFrom("CE31D030"))).To(Succeed())
			Expect(store.Append(ctx, recordFrom("CE31D030"))).To(Succeed())

			Expect(store.Records("")).To(HaveLen(1))
			Expect(updateChan).To(HaveLen(1))

			summary, err := store.Get(ctx, "CE31D030")
			Expect(err).To(Succeed())
			Expect(gjson.GetBytes(summary, "count").Int()).To(Equal(int64(1)))
		})

		It("keeps the newest records of each address", func() {
			store := storage.NewBoundedInmemoryStore(2)
			defer store.Close()

			ctx := context.Background()
			Expect(store.Append(ctx, recordAt("CE31D030", "24204150000"))).To(Succeed())
			Expect(store.Append(ctx, recordFrom("CE31D031"))).To(Succeed())
			Expect(store.Append(ctx, recordAt("CE31D030", "24204150100"))).To(Succeed())
			Expect(store.Append(ctx, recordAt("CE31D030", "24204150200"))).To(Succeed())

			kept := store.Records("CE31D030")
			Expect(kept).To(HaveLen(2))
			Expect(kept[0]).To(Equal(recordAt("CE31D030", "24204150100")))
			Expect(kept[1]).To(Equal(recordAt("CE31D030", "24204150200")))
			Expect(store.Records("")).To(HaveLen(3))

			// Older than a full window, so it would only be dropped again.
			Expect(store.Append(ctx, recordAt("CE31D030", "24204150000"))).To(Succeed())
			Expect(store.Records("CE31D030")).To(Equal(kept))
		})

		It("keeps everything without a limit", func() {
			store := storage.NewBoundedInmemoryStore(0)
			defer store.Close()

			ctx := context.Background()
			for _, stamp := range []string{"24204150000", "24204150100", "24204150200"} {
				Expect(store.Append(ctx, recordAt("CE31D030", stamp))).To(Succeed())
			}

			Expect(store.Records("CE31D030")).To(HaveLen(3))
		})
	})

	Describe("Restore()", func() {
		It("restores a backup", func() {
			store := storage.NewInmemoryStore()
			defer store.Close()

			Expect(store.Restore([]byte(`{"CE31D030":{"count":5}}`))).To(Succeed())
			Expect(store.Append(context.Background(), recordFrom("CE31D030"))).To(Succeed())

			summary, err := store.Get(context.Background(), "CE31D030")
			Expect(err).To(Succeed())
			Expect(gjson.GetBytes(summary, "count").Int()).To(Equal(int64(6)))
		})

		It("rejects invalid JSON", func() {
			store := storage.NewInmemoryStore()
			defer store.Close()

			Expect(store.Restore([]byte(`{"CE31`))).NotTo(Succeed())
		})
	})
})
