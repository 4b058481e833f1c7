package migrations

import (
	"encoding/json"

	"github.com/pocketbase/pocketbase/core"
	m "github.com/pocketbase/pocketbase/migrations"
)

func init() {
	m.Register(func(app core.App) error {
		jsonData := `{
			"createRule": null,
			"deleteRule": null,
			"fields": [
				{
					"autogeneratePattern": "[a-z0-9]{15}",
					"hidden": false,
					"id": "text3208210256",
					"max": 15,
					"min": 15,
					"name": "id",
					"pattern": "^[a-z0-9]+$",
					"presentable": false,
					"primaryKey": true,
					"required": true,
					"system": true,
					"type": "text"
				},
				{
					"cascadeDelete": false,
					"collectionId": "_pb_users_auth_",
					"hidden": false,
					"id": "relation2809058197",
					"maxSelect": 1,
					"minSelect": 0,
					"name": "user_id",
					"presentable": false,
					"required": true,
					"system": false,
					"type": "relation"
				},
				{
					"cascadeDelete": false,
					"collectionId": "pbc_2478702894",
					"hidden": false,
					"id": "relation1766001124",
					"maxSelect": 1,
					"minSelect": 0,
					"name": "turf_id",
					"presentable": false,
					"required": true,
					"system": false,
					"type": "relation"
				},
				{
					"autogeneratePattern": "",
					"hidden": false,
					"id": "text2862495610",
					"max": 10,
					"min": 10,
					"name": "booking_date",
					"pattern": "^\\d{4}-\\d{2}-\\d{2}$",
					"presentable": false,
					"primaryKey": false,
					"required": true,
					"system": false,
					"type": "text"
				},
				{
					"autogeneratePattern": "",
					"hidden": false,
					"id": "text2676927706",
					"max": 5,
					"min": 5,
					"name": "start_time",
					"pattern": "^([01][0-9]|2[0-3]):[0-5][0-9]$",
					"presentable": false,
					"primaryKey": false,
					"required": true,
					"system": false,
					"type": "text"
				},
				{
					"autogeneratePattern": "",
					"hidden": false,
					"id": "text3144380399",
					"max": 5,
					"min": 5,
					"name": "end_time",
					"pattern": "^([01][0-9]|2[0-3]):[0-5][0-9]$",
					"presentable": false,
					"primaryKey": false,
					"required": true,
					"system": false,
					"type": "text"
				},
				{
					"hidden": false,
					"id": "number1932658820",
					"max": null,
					"min": 30,
					"name": "duration_minutes",
					"onlyInt": true,
					"presentable": false,
					"required": true,
					"system": false,
					"type": "number"
				},
				{
					"hidden": false,
					"id": "number3257917790",
					"max": null,
					"min": 0,
					"name": "total_amount",
					"onlyInt": true,
					"presentable": false,
					"required": true,
					"system": false,
					"type": "number"
				},
				{
					"hidden": false,
					"id": "select1542800728",
					"maxSelect": 1,
					"name": "payment_status",
					"presentable": false,
					"required": true,
					"system": false,
					"type": "select",
					"values": [
						"pending",
						"paid",
						"failed",
						"refunded"
					]
				},
				{
					"hidden": false,
					"id": "select2063623452",
					"maxSelect": 1,
					"name": "booking_status",
					"presentable": false,
					"required": true,
					"system": false,
					"type": "select",
					"values": [
						"confirmed",
						"cancelled",
						"completed"
					]
				},
				{
					"autogeneratePattern": "",
					"hidden": false,
					"id": "text3846545605",
					"max": 0,
					"min": 0,
					"name": "payment_ref",
					"pattern": "",
					"presentable": false,
					"primaryKey": false,
					"required": false,
					"system": false,
					"type": "text"
				},
				{
					"hidden": false,
					"id": "autodate2990389176",
					"name": "created",
					"onCreate": true,
					"onUpdate": false,
					"presentable": false,
					"system": false,
					"type": "autodate"
				},
				{
					"hidden": false,
					"id": "autodate3332085495",
					"name": "updated",
					"onCreate": true,
					"onUpdate": true,
					"presentable": false,
					"system": false,
					"type": "autodate"
				}
			],
			"id": "pbc_1902088756",
			"indexes": [
				"CREATE INDEX ` + "`" + `idx_bookings_turf_date` + "`" + ` ON ` + "`" + `bookings` + "`" + ` (` + "`" + `turf_id` + "`" + `, ` + "`" + `booking_date` + "`" + `)",
				"CREATE INDEX ` + "`" + `idx_bookings_user` + "`" + ` ON ` + "`" + `bookings` + "`" + ` (` + "`" + `user_id` + "`" + `)",
				"CREATE INDEX ` + "`" + `idx_bookings_status` + "`" + ` ON ` + "`" + `bookings` + "`" + ` (` + "`" + `booking_status` + "`" + `, ` + "`" + `payment_status` + "`" + `)"
			],
			"listRule": null,
			"name": "bookings",
			"system": false,
			"type": "base",
			"updateRule": null,
			"viewRule": null
		}`

		collection := &core.Collection{}
		if err := json.Unmarshal([]byte(jsonData), &collection); err != nil {
			return err
		}

		return app.Save(collection)
	}, func(app core.App) error {
		collection, err := app.FindCollectionByNameOrId("pbc_1902088756")
		if err != nil {
			return err
		}

		return app.Delete(collection)
	})
}
